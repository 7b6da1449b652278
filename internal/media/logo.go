package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage  = errors.New("logo is not a supported image")
	ErrTooLarge  = errors.New("logo exceeds the size limit")
	ErrEmptyLogo = errors.New("logo is empty")
)

// Logo is a user-selected image staged in a temporary file until it is uploaded.
// Close discards the file; callers must always close it.
type Logo struct {
	path        string
	name        string
	size        int64
	contentType string

	closeOnce sync.Once
	closeErr  error
}

// NewLogo copies r into a temp file, rejecting payloads over maxBytes or that are not images.
func NewLogo(r io.Reader, name string, maxBytes int64) (*Logo, error) {
	if r == nil {
		return nil, ErrEmptyLogo
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max logo size must be positive")
	}

	tmp, err := os.CreateTemp("", "logo-*.img")
	if err != nil {
		return nil, fmt.Errorf("creating logo buffer: %w", err)
	}
	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	n, err := io.Copy(tmp, io.LimitReader(r, maxBytes+1))
	if err != nil {
		discard()
		return nil, fmt.Errorf("buffering logo: %w", err)
	}
	if n == 0 {
		discard()
		return nil, ErrEmptyLogo
	}
	if n > maxBytes {
		discard()
		return nil, fmt.Errorf("%w: max %d bytes", ErrTooLarge, maxBytes)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("closing logo buffer: %w", err)
	}

	detected, err := mimetype.DetectFile(tmp.Name())
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("detecting logo type: %w", err)
	}
	contentType, ok := allowedLogoMime(detected)
	if !ok {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrNotImage, detected.String(), allowedLogoDescription())
	}

	return &Logo{
		path:        tmp.Name(),
		name:        strings.TrimSpace(name),
		size:        n,
		contentType: contentType,
	}, nil
}

func (l *Logo) Name() string        { return l.name }
func (l *Logo) Size() int64         { return l.size }
func (l *Logo) ContentType() string { return l.contentType }
func (l *Logo) Path() string        { return l.path }

// Bytes reads the staged image back.
func (l *Logo) Bytes() ([]byte, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading logo buffer: %w", err)
	}
	return data, nil
}

// Close removes the temp file. Safe to call more than once and on a nil Logo.
func (l *Logo) Close() error {
	if l == nil {
		return nil
	}
	l.closeOnce.Do(func() {
		if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.closeErr = err
		}
	})
	return l.closeErr
}
