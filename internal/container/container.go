package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fdrtidy/adapters/memory"
	"fdrtidy/adapters/postgres"
	"fdrtidy/adapters/tidy"
	"fdrtidy/app"
	"fdrtidy/internal"
	"fdrtidy/internal/api"
	"fdrtidy/internal/config"
	apperrors "fdrtidy/internal/errors"
	"fdrtidy/internal/migration"
	"fdrtidy/ports"
	"fdrtidy/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	ResultRepo ports.ResultRepository

	// Application components
	Tabulator ports.Tabulator
	Service   *app.TabulationService
	UI        *ui.App
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	return &Container{
		Config: cfg,
		Logger: logger,
	}, nil
}

// Init connects the configured result store and wires the application
func (c *Container) Init(ctx context.Context) error {
	if !c.Config.UsesDatabase() {
		c.Logger.Info("[Container] DATABASE_URL not set, keeping results in memory")
		return c.InitWithRepository(memory.NewResultRepository())
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return apperrors.DatabaseError("failed to connect to database", err)
	}
	c.DB = db

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return apperrors.Wrap(err, "database migration failed")
	}

	c.Logger.Info("[Container] results stored in PostgreSQL")
	return c.InitWithRepository(postgres.NewResultRepository(db))
}

// InitWithRepository wires the application around an existing result store
func (c *Container) InitWithRepository(repo ports.ResultRepository) error {
	if repo == nil {
		return fmt.Errorf("result repository cannot be nil")
	}

	c.ResultRepo = repo
	c.Tabulator = tidy.NewQValueTabulator()
	c.Service = app.NewTabulationService(c.ResultRepo, c.Tabulator, c.Logger, app.ServiceConfig{
		Flavor:      c.Config.Output.Flavor,
		StrictRows:  c.Config.Output.StrictRows,
		Concurrency: c.Config.Export.Concurrency,
	})

	gin.SetMode(c.Config.Server.GinMode)
	apiRouter := api.NewRouter(api.NewResultsHandler(c.Service, c.Logger), c.Logger)
	c.UI = ui.NewApp(c.Service, apiRouter, c.Logger)

	return nil
}

// Handler returns the HTTP handler serving reports and the API
func (c *Container) Handler() http.Handler {
	return c.UI
}

// Serve listens on the configured port until ctx is cancelled
func (c *Container) Serve(ctx context.Context) error {
	if c.UI == nil {
		return fmt.Errorf("container not initialized")
	}

	srv := &http.Server{
		Addr:              ":" + c.Config.Server.Port,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("[Container] serving reports and API on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Logger.Info("[Container] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
