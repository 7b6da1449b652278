package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

type AuthKind string

const (
	AuthInvalidCredentials AuthKind = "invalid_credentials"
	AuthEmailUnconfirmed   AuthKind = "email_unconfirmed"
	AuthUserNotFound       AuthKind = "user_not_found"
	AuthAlreadyRegistered  AuthKind = "already_registered"
	AuthWeakPassword       AuthKind = "weak_password"
	AuthSessionExpired     AuthKind = "session_expired"
	AuthUnknown            AuthKind = "unknown"
)

// AuthError is a rejected authentication request.
type AuthError struct {
	Kind    AuthKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth: %s", e.Kind)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

type StorageKind string

const (
	StorageNetwork    StorageKind = "network"
	StoragePermission StorageKind = "permission"
	StorageNotFound   StorageKind = "not_found"
	StorageUnknown    StorageKind = "unknown"
)

// StorageError is a failed row or blob operation.
type StorageError struct {
	Kind StorageKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuthKind reports whether err wraps an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}

// IsStorageKind reports whether err wraps a *StorageError of the given kind.
func IsStorageKind(err error, kind StorageKind) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr) && storageErr.Kind == kind
}

// IsTransport reports whether err wraps a *TransportError.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// Kind returns a short label for metrics and logs.
func Kind(err error) string {
	var (
		authErr      *AuthError
		storageErr   *StorageError
		transportErr *TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr):
		return "auth_" + string(authErr.Kind)
	case errors.As(err, &storageErr):
		return "storage_" + string(storageErr.Kind)
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "unknown"
	}
}

var authMessageKinds = []struct {
	needle string
	kind   AuthKind
}{
	{"invalid login credentials", AuthInvalidCredentials},
	{"email not confirmed", AuthEmailUnconfirmed},
	{"user not found", AuthUserNotFound},
	{"user already registered", AuthAlreadyRegistered},
	{"password should be", AuthWeakPassword},
}

// classifyAuthMessage maps backend auth messages by case-insensitive substring.
func classifyAuthMessage(msg string) AuthKind {
	lower := strings.ToLower(msg)
	for _, candidate := range authMessageKinds {
		if strings.Contains(lower, candidate.needle) {
			return candidate.kind
		}
	}
	return AuthUnknown
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
