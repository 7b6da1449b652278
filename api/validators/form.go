package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
)

// formOverhead is the room left for text fields next to the largest accepted file.
const formOverhead = 1 << 20

// ParseMultipart reads a multipart form whose file parts may not exceed maxFileBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxFileBytes int64) error {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return pkgerrors.New(pkgerrors.CodeUnsupportedMedia, "expected multipart/form-data")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes+formOverhead)
	if err := r.ParseMultipartForm(maxFileBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "upload too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormFile returns the named file part, or nil when the field was not sent.
func FormFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file field").WithDetails(map[string]any{"field": field})
	}
	return file, header, nil
}
