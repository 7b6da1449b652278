package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/startupidea/api/responses"
	"github.com/angelmondragon/startupidea/api/validators"
	"github.com/angelmondragon/startupidea/internal/session"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthState returns the current session view state.
func AuthState(mgr SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, mgr.Snapshot())
	}
}

// AuthSignIn validates the form, then drives the sign-in state machine. Backend rejections
// are reported through the returned state's outcome, not as HTTP errors.
func AuthSignIn(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCredentials(w, r, logg)
		if !ok {
			return
		}
		ctx := logg.WithUserEmail(r.Context(), req.Email)
		mgr.SignIn(ctx, req.Email, req.Password)
		responses.WriteSuccess(w, mgr.Snapshot())
	}
}

// AuthSignUp registers an account; success replies 202 and awaits email confirmation.
func AuthSignUp(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCredentials(w, r, logg)
		if !ok {
			return
		}
		ctx := logg.WithUserEmail(r.Context(), req.Email)
		status := http.StatusOK
		if mgr.SignUp(ctx, req.Email, req.Password) {
			status = http.StatusAccepted
		}
		responses.WriteSuccessStatus(w, status, mgr.Snapshot())
	}
}

// AuthSignOut signs out locally and remotely. Repeated calls are harmless.
func AuthSignOut(mgr SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr.SignOut(r.Context())
		responses.WriteSuccess(w, mgr.Snapshot())
	}
}

// AuthClearConfirmation dismisses the pending confirmation notice.
func AuthClearConfirmation(mgr SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr.ClearPendingConfirmation()
		responses.WriteSuccess(w, mgr.Snapshot())
	}
}

// AuthRefresh renews the session; a failed renewal signs the user out locally.
func AuthRefresh(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !mgr.RefreshIfNeeded(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired").WithDetails(mgr.Snapshot()))
			return
		}
		responses.WriteSuccess(w, mgr.Snapshot())
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := validators.DecodeJSONBody(w, r, &req); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if msg := session.ValidateCredentials(req.Email, req.Password); msg != "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, msg))
		return req, false
	}
	return req, true
}
