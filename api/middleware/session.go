package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/startupidea/api/responses"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/models"
)

// SessionGate renews the backend session ahead of privileged actions.
type SessionGate interface {
	RefreshIfNeeded(ctx context.Context) bool
	CurrentEmail() string
}

type IdeaFinder interface {
	Find(id string) (models.Idea, bool)
}

// RequireSession refreshes the session and rejects the request when nobody is signed in.
func RequireSession(gate SessionGate, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
				return
			}
			if !gate.RefreshIfNeeded(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			email := strings.TrimSpace(gate.CurrentEmail())
			if email == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session has no email"))
				return
			}

			ctx := WithEmail(r.Context(), email)
			if logg != nil {
				ctx = logg.WithUserEmail(ctx, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner rejects changes to an idea owned by someone else. Ideas missing from the local
// collection pass through so the store reports them.
func RequireOwner(finder IdeaFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithIdeaID(ctx, id)
			}
			if idea, ok := finder.Find(id); ok && !idea.OwnedBy(EmailFromContext(ctx)) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can change this idea"))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
