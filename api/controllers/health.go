package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/startupidea/api/responses"
	"github.com/angelmondragon/startupidea/pkg/config"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
)

const envHeader = "X-IdeaBoard-Env"

// HealthLive reports that the process is up.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports local store state. The backend itself is not probed; the session
// store is pinged when it is remote.
func HealthReady(cfg *config.Config, logg *logger.Logger, sessionStore Pinger, mgr SessionManager, store IdeaStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if sessionStore != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := sessionStore.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unreachable"))
				return
			}
		}

		snapshot := store.Snapshot()
		responses.WriteSuccess(w, map[string]any{
			"status":    "ready",
			"logged_in": mgr.IsLoggedIn(),
			"ideas":     len(snapshot.Ideas),
			"uploading": snapshot.Uploading,
		})
	}
}
