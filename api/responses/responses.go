package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/internal/ideas"
	"github.com/angelmondragon/startupidea/internal/media"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
)

// WriteSuccess writes data in a 200 success envelope.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// WriteError classifies err, logs it and writes the error envelope.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := Classify(err)
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodePayloadTooLarge,
		pkgerrors.CodeUnsupportedMedia,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := ErrorEnvelope{
		Error: APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error":        err.Error(),
			"error_code":   string(typed.Code()),
			"gateway_kind": gateway.Kind(err),
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// Classify maps domain errors onto boundary codes. Errors that already carry a code pass through.
func Classify(err error) *pkgerrors.Error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}

	var inputErr *ideas.InputError
	if errors.As(err, &inputErr) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").WithDetails(inputErr.Fields)
	}
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "logo is too large")
	case errors.Is(err, media.ErrNotImage):
		return pkgerrors.Wrap(pkgerrors.CodeUnsupportedMedia, err, "logo must be an image")
	case errors.Is(err, media.ErrEmptyLogo):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "logo is empty")
	}

	var authErr *gateway.AuthError
	if errors.As(err, &authErr) {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, authErr.Message)
	}

	var storageErr *gateway.StorageError
	if errors.As(err, &storageErr) {
		switch storageErr.Kind {
		case gateway.StorageNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "idea not found")
		case gateway.StoragePermission:
			return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "backend refused the write")
		case gateway.StorageNetwork:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unavailable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storage failure")
	}

	if gateway.IsTransport(err) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unavailable")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
