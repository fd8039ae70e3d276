package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/portalbonos/internal/adapter/driven/sqlstore"
	httphandler "github.com/ericfisherdev/portalbonos/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web"
	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/session"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/config"
	"github.com/ericfisherdev/portalbonos/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"env", cfg.Env,
		"listen_addr", cfg.ListenAddr,
		"session_ttl", cfg.SessionTTL,
		"sweep_interval", cfg.SweepInterval,
		"cookie_secure", cfg.CookieSecure,
	)
	if cfg.IsDev() {
		logger.Warn("running with dev settings, do not expose this instance")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (SQLite reader/writer pair or a PostgreSQL pool).
	db, err := sqlstore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "dialect", db.Dialect)

	// 4. Run migrations on the writer connection.
	if err := sqlstore.RunMigrations(db); err != nil {
		return err
	}
	logger.Info("migrations complete")

	// 5. Wire adapters.
	beneficiaryStore := sqlstore.NewBeneficiaryRepo(db)
	physicianStore := sqlstore.NewPhysicianRepo(db)
	voucherStore := sqlstore.NewVoucherRepo(db)
	sessionStore := sqlstore.NewSessionRepo(db)

	// 6. Create application services.
	authSvc := application.NewAuthService(beneficiaryStore, logger)
	profileSvc := application.NewProfileService(beneficiaryStore, logger)
	physicianSvc := application.NewPhysicianService(physicianStore, logger)
	voucherSvc := application.NewVoucherService(voucherStore, logger)

	m := metrics.New()

	// 7. Start the expired-session sweeper.
	sweeper := application.NewSessionSweeper(sessionStore, cfg.SweepInterval, logger)
	sweeper.OnSweep(m.AddSweptSessions)
	go sweeper.Start(ctx)

	// 8. Register operational and portal routes.
	mux := http.NewServeMux()
	httphandler.RegisterRoutes(mux, httphandler.NewHandler(db, m, logger))

	sessions := session.NewManager(sessionStore, cfg.SecretKey, cfg.SessionTTL, cfg.CookieSecure, logger)
	webHandler := webhandler.NewHandler(authSvc, profileSvc, physicianSvc, voucherSvc, sessions, m, cfg.CookieSecure, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.Wrap(mux, m, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
