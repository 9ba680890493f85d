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

	httpapi "github.com/raumfrei/offerd/internal/offers/http"
	"github.com/raumfrei/offerd/internal/offers/mail"
	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/internal/offers/store/drivers/flatfile"
	"github.com/raumfrei/offerd/internal/offers/store/drivers/sqlite"
	"github.com/raumfrei/offerd/internal/offers/tenant"
	"github.com/raumfrei/offerd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the offer service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	tenants *tenant.Registry
	mailer  mail.Dispatcher

	// Services
	offerService *service.OfferService
	housekeeping *service.Housekeeping

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "offer-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initTenants(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	app.housekeeping.Start(ctx)

	app.logger.Info("offer service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store_driver", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down offer service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping worker
	app.housekeeping.Stop()

	// Close the storage backend
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("offer service stopped")
	return nil
}

// initStore initializes the selected storage backend and, for sqlite,
// applies migrations.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "sqlite":
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.db = db
		app.logger.Info("database migrations applied successfully")

	case "flatfile":
		db, err := flatfile.NewStore(app.cfg.SnapshotFile)
		if err != nil {
			return fmt.Errorf("failed to open snapshot file: %w", err)
		}
		app.db = db
		app.logger.Info("flat-file store loaded", "path", app.cfg.SnapshotFile)

	default:
		return fmt.Errorf("unknown store driver %q (want sqlite or flatfile)", app.cfg.StoreDriver)
	}

	return nil
}

// initTenants loads the tenant registry, from file when configured and from
// the built-in defaults otherwise.
func (app *Application) initTenants() error {
	configs := tenant.DefaultConfigs()
	if app.cfg.TenantsFile != "" {
		loaded, err := tenant.LoadConfigs(app.cfg.TenantsFile)
		if err != nil {
			return fmt.Errorf("failed to load tenants file: %w", err)
		}
		configs = loaded
	}

	registry, err := tenant.NewRegistry(configs, tenant.DefaultHooks())
	if err != nil {
		return fmt.Errorf("failed to build tenant registry: %w", err)
	}
	app.tenants = registry

	return nil
}

// initMailer wires the SMTP dispatcher when a relay is configured and falls
// back to the logging dispatcher otherwise.
func (app *Application) initMailer() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Info("no SMTP relay configured, mails will be logged")
		app.mailer = &mail.LogDispatcher{Logger: app.logger}
		return nil
	}

	dispatcher, err := mail.NewSMTPDispatcher(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
		BaseURL:  app.cfg.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP dispatcher: %w", err)
	}
	app.mailer = dispatcher

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	durations := service.DefaultDurations()
	if app.cfg.DurationUnit > 0 {
		durations.Unit = app.cfg.DurationUnit
	}

	app.offerService = &service.OfferService{
		Store:     app.db,
		Tenants:   app.tenants,
		Mailer:    app.mailer,
		Durations: durations,
	}

	app.housekeeping = &service.Housekeeping{
		Store:     app.db,
		Interval:  app.cfg.HousekeepingInterval,
		Retention: app.cfg.Retention,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.AdminKeyHash,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.OfferService = app.offerService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
