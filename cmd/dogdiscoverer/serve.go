package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	redisadapter "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driven/redis"
	sqliteadapter "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web"
	"github.com/ericfisherdev/dogdiscoverer/internal/application"
	"github.com/ericfisherdev/dogdiscoverer/internal/config"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
	"github.com/ericfisherdev/dogdiscoverer/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web GUI and JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		return serve(cmd.Context(), listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides DOGDISCOVERER_LISTEN_ADDR)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context, listenOverride string) error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenOverride != "" {
		cfg.ListenAddr = listenOverride
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"dog_api_url", cfg.DogAPIURL,
		"max_attempts", cfg.MaxAttempts,
		"in_memory", cfg.InMemory(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the session store (in-memory SQLite unless a path or Redis URL is configured).
	banStore, historyStore, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Wire adapters.
	dogClient, err := newDogClient(cfg)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()

	// 5. Create and start the session service.
	discoverer := application.NewDiscoverer(dogClient, cfg.MaxAttempts, metrics)
	session := application.NewSessionService(discoverer, banStore, historyStore)
	go session.Start(ctx)

	breeds := application.NewBreedService(dogClient, banStore, cfg.BreedCacheTTL)

	// 6. Register API, GUI and metrics routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(session, breeds, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(session, breeds, slog.Default()))
	mux.Handle("GET /metrics", metrics.Handler())

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := newServer(ctx, cfg.ListenAddr, handler)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	slog.Info("dogdiscoverer started", "listen_addr", cfg.ListenAddr)

	// 7. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serverErrors:
		return err
	}

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newServer builds the HTTP server. Requests inherit ctx, so open event
// streams end when ctx is canceled instead of holding Shutdown until its
// deadline.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// openStores opens the configured session backend and returns its ban and
// history stores with a func that releases it.
func openStores(ctx context.Context, cfg *config.Config) (driven.BanStore, driven.HistoryStore, func(), error) {
	if cfg.UseRedis() {
		store, err := redisadapter.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		slog.Info("redis store connected")

		closeStore := func() {
			if err := store.Close(); err != nil {
				slog.Error("error closing redis client", "error", err)
			}
		}
		return redisadapter.NewBanRepo(store), redisadapter.NewHistoryRepo(store), closeStore, nil
	}

	// Dual reader/writer connections with WAL mode for file databases.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	closeStore := func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	slog.Info("database opened", "path", db.Path())

	version, err := db.Migrate(ctx)
	if err != nil {
		closeStore()
		return nil, nil, nil, err
	}
	slog.Info("migrations complete", "schema_version", version)

	return sqliteadapter.NewBanRepo(db), sqliteadapter.NewHistoryRepo(db), closeStore, nil
}
