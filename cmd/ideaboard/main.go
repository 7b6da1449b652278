package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/startupidea/api/controllers"
	"github.com/angelmondragon/startupidea/api/routes"
	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/internal/ideas"
	"github.com/angelmondragon/startupidea/internal/session"
	authsession "github.com/angelmondragon/startupidea/pkg/auth/session"
	"github.com/angelmondragon/startupidea/pkg/config"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/metrics"
	"github.com/angelmondragon/startupidea/pkg/redis"
	"github.com/angelmondragon/startupidea/pkg/supabase"
)

const serviceName = "ideaboard"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "ideaboard stopped with errors", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	persister, redisClient, err := newPersister(ctx, cfg, logg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				err = multierr.Append(err, cerr)
			}
		}()
	}

	client, err := supabase.NewClient(cfg.Backend, supabase.WithLogger(logg))
	if err != nil {
		return err
	}
	backend, err := gateway.NewSupabase(client, persister, gateway.SupabaseOptions{
		Table:     cfg.Backend.IdeasTable,
		Bucket:    cfg.Storage.Bucket,
		JWTSecret: cfg.Backend.JWTSecret,
		Logger:    logg,
	})
	if err != nil {
		return err
	}
	gw := gateway.Instrument(backend, metrics.NewGatewayMetrics(reg), logg)

	managerOpts := []session.Option{session.WithLogger(logg)}
	if cfg.Session.SingleFlightAuth {
		managerOpts = append(managerOpts, session.WithSingleFlight())
	}
	manager, err := session.NewManager(gw, managerOpts...)
	if err != nil {
		return err
	}
	store, err := ideas.NewStore(gw, ideas.WithLogger(logg), ideas.WithMetrics(metrics.NewIdeaMetrics(reg)))
	if err != nil {
		return err
	}

	// Startup sync runs alongside the server; neither blocks serving.
	go func() {
		bootCtx := logg.WithOperation(ctx, "startup")
		manager.CheckLoginStatus(bootCtx)
		if err := store.FetchIdeas(bootCtx); err != nil {
			logg.Warn(bootCtx, "initial idea fetch failed")
		}
	}()

	var readiness controllers.Pinger
	if redisClient != nil {
		readiness = redisClient
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, reg, readiness, manager, store),
	}

	serveCtx := logg.WithFields(ctx, map[string]any{
		"addr":          addr,
		"session_store": cfg.Session.Store,
	})
	logg.Info(serveCtx, "starting ideaboard server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(serveCtx, "shutting down ideaboard server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		err = multierr.Append(err, serr)
	}
	return multierr.Append(err, <-serveErr)
}

// newPersister picks where the backend session survives restarts.
func newPersister(ctx context.Context, cfg *config.Config, logg *logger.Logger) (authsession.Persister, *redis.Client, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return authsession.NewMemoryPersister(), nil, nil
	}
	client, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, nil, err
	}
	persister, err := authsession.NewRedisPersister(client, cfg.Session.Key, cfg.Redis.SessionTTL)
	if err != nil {
		return nil, nil, multierr.Append(err, client.Close())
	}
	return persister, client, nil
}
