package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/internal/ideas"
	"github.com/angelmondragon/startupidea/internal/media"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), logger.Nop(), w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "bad input" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "internal server error" {
		t.Fatalf("internal messages must not leak, got %q", body.Error.Message)
	}
	if body.Error.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
}

func TestClassifyDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code pkgerrors.Code
	}{
		{"input", &ideas.InputError{Fields: map[string]string{"title": "is required"}}, pkgerrors.CodeValidation},
		{"logo too large", fmt.Errorf("%w: max 5 bytes", media.ErrTooLarge), pkgerrors.CodePayloadTooLarge},
		{"logo not image", fmt.Errorf("%w: got text/plain", media.ErrNotImage), pkgerrors.CodeUnsupportedMedia},
		{"empty logo", media.ErrEmptyLogo, pkgerrors.CodeValidation},
		{"auth", &gateway.AuthError{Kind: gateway.AuthSessionExpired, Message: "expired"}, pkgerrors.CodeUnauthorized},
		{"not found", &gateway.StorageError{Kind: gateway.StorageNotFound, Op: "delete_idea"}, pkgerrors.CodeNotFound},
		{"permission", &gateway.StorageError{Kind: gateway.StoragePermission, Op: "update_idea"}, pkgerrors.CodeForbidden},
		{"network", &gateway.StorageError{Kind: gateway.StorageNetwork, Op: "list_ideas"}, pkgerrors.CodeDependency},
		{"unknown storage", &gateway.StorageError{Kind: gateway.StorageUnknown, Op: "list_ideas"}, pkgerrors.CodeInternal},
		{"transport", &gateway.TransportError{Op: "sign_in", Err: errors.New("dial")}, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.code, Classify(tc.err).Code())
		})
	}
}

func TestWriteErrorInputDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), logger.Nop(), w, &ideas.InputError{Fields: map[string]string{"title": "is required"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, map[string]any{"title": "is required"}, body.Error.Details)
}
