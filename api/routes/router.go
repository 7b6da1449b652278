package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/startupidea/api/controllers"
	"github.com/angelmondragon/startupidea/api/middleware"
	"github.com/angelmondragon/startupidea/pkg/config"
	"github.com/angelmondragon/startupidea/pkg/logger"
)

// NewRouter wires the view-state binder. sessionStore may be nil when sessions live in memory.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	sessionStore controllers.Pinger,
	sessionManager controllers.SessionManager,
	ideaStore controllers.IdeaStore,
) http.Handler {
	if logg == nil {
		logg = logger.Nop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	maxLogo := cfg.Storage.MaxLogoBytes()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, sessionStore, sessionManager, ideaStore))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Get("/state", controllers.AuthState(sessionManager))
		r.Post("/signin", controllers.AuthSignIn(sessionManager, logg))
		r.Post("/signup", controllers.AuthSignUp(sessionManager, logg))
		r.Post("/signout", controllers.AuthSignOut(sessionManager))
		r.Post("/confirmation/clear", controllers.AuthClearConfirmation(sessionManager))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, logg))
	})

	r.Route("/api/v1/ideas", func(r chi.Router) {
		r.Get("/", controllers.IdeaList(ideaStore, sessionManager, logg))
		r.Get("/{id}", controllers.IdeaDetail(ideaStore, logg))
		r.Post("/refresh", controllers.IdeaRefresh(ideaStore, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessionManager, logg))
			r.Post("/", controllers.IdeaCreate(ideaStore, maxLogo, logg))

			r.With(middleware.RequireOwner(ideaStore, logg)).Put("/{id}", controllers.IdeaUpdate(ideaStore, maxLogo, logg))
			r.With(middleware.RequireOwner(ideaStore, logg)).Delete("/{id}", controllers.IdeaDelete(ideaStore, logg))
		})
	})

	return r
}
