package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	httpapi "github.com/aussiebroadwan/biovote/internal/booth/http"
	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/internal/booth/store/drivers/memory"
	"github.com/aussiebroadwan/biovote/internal/booth/store/drivers/sqlite"
	"github.com/aussiebroadwan/biovote/pkg/jwtx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the booth service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	verifier *biometric.Verifier
	signer   jwtx.Signer
	keys     *jwtx.KeySet

	enrollmentService *service.EnrollmentService
	ballotService     *service.BallotService
	officialService   *service.OfficialService
	integrityService  *service.IntegrityService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "booth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	verifier, err := biometric.NewVerifier(biometric.VerifierOptions{
		Normalizer:    biometric.GrayscaleNormalizer{Size: cfg.SampleSize, MaxPixels: cfg.MaxSamplePixels},
		FaceThreshold: cfg.FaceThreshold,
		EyeThreshold:  cfg.EyeThreshold,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to configure verifier: %w", err)
	}
	app.verifier = verifier

	app.signer, app.keys, err = InitOfficialKeys(app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize official keys: %w", err)
	}

	secret, err := InitOfficialSecret(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(secret)
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.integrityService.Start()

	app.logger.Info("booth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"face_threshold", app.cfg.FaceThreshold,
		"eye_threshold", app.cfg.EyeThreshold,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.integrityService.Stop()
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then stops the audit worker and
// closes the store. A cast that already reached commit finishes or rolls
// back as a whole.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down booth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.integrityService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("booth service stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations
func (app *Application) initDatabase() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.NewStore()
		app.logger.Warn("using in-memory store: voters and ballots are lost on restart")

	case "sqlite", "":
		sealer, err := InitSealer(app.cfg, app.logger)
		if err != nil {
			return fmt.Errorf("failed to load master key: %w", err)
		}
		db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile), sealer)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

func (app *Application) initServices(officialSecret string) {
	app.enrollmentService = &service.EnrollmentService{
		Store:    app.db,
		Verifier: app.verifier,
	}
	app.ballotService = service.NewBallotService(app.db, app.verifier)
	app.officialService = &service.OfficialService{
		Secret: officialSecret,
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.OfficialTokenTTL,
	}
	app.integrityService = service.NewIntegrityService(
		app.db,
		app.logger,
		app.cfg.AuditInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer),
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.MaxSampleBytes,
	)

	router.EnrollmentService = app.enrollmentService
	router.BallotService = app.ballotService
	router.OfficialService = app.officialService
	router.IntegrityService = app.integrityService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
