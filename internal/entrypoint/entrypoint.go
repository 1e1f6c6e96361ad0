package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkdepot/internal/config"
	"github.com/mrlokans/linkdepot/internal/database"
	"github.com/mrlokans/linkdepot/internal/database/links"
	"github.com/mrlokans/linkdepot/internal/database/shelves"
	"github.com/mrlokans/linkdepot/internal/favicon"
	http_controllers "github.com/mrlokans/linkdepot/internal/http"
	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/scheduler"
	"github.com/mrlokans/linkdepot/internal/session"
	"github.com/mrlokans/linkdepot/internal/tasks"
	"github.com/mrlokans/linkdepot/internal/web"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the storage and favicon plumbing shared by the server and the
// command line tools.
type App struct {
	Config  *config.Config
	Log     logger.Logger
	DB      *database.Database
	Shelves *shelves.Repository
	Links   *links.Repository

	// Favicons is the task queue client when tasks are enabled and an inline
	// fetcher otherwise.
	Favicons http_controllers.FaviconEnqueuer

	taskClient *tasks.Client
}

// Open initializes the database, repositories and favicon fetching.
func Open(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogLevel, log)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Shelves: shelves.NewRepository(db.DB),
		Links:   links.NewRepository(db.DB),
	}

	fetcher := favicon.NewFetcher(favicon.Options{
		ProxyURL:  cfg.Favicon.ProxyURL,
		Timeout:   cfg.Favicon.Timeout,
		MaxBytes:  cfg.Favicon.MaxBytes,
		UserAgent: cfg.Favicon.UserAgent,
	})

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}
		app.taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize task queue: %w", err)
		}
		app.taskClient.Register(tasks.NewFetchFaviconQueue(app.Links, fetcher, log))
		app.Favicons = app.taskClient
	} else {
		app.Favicons = &tasks.Inline{Store: app.Links, Fetcher: fetcher, Timeout: cfg.Favicon.Timeout}
	}

	return app, nil
}

// Close releases the task queue and the database.
func (a *App) Close() {
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			a.Log.Error("Error closing task client", logger.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Log.Error("Error closing database", logger.Error(err))
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, log logger.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("Shutting down server", logger.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so nothing writes after the server is gone
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires every component and serves until interrupted.
func Run(cfg *config.Config, version string, log logger.Logger) error {
	log.Info("Starting LinkDepot", logger.String("version", version))

	app, err := Open(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if app.taskClient != nil {
		app.taskClient.Start(ctx)
	}

	var backfill *scheduler.FaviconBackfillScheduler
	if cfg.Backfill.Enabled {
		backfill = scheduler.NewFaviconBackfillScheduler(app.Links, app.Favicons, cfg.Backfill.Schedule, log)
		if err := backfill.Start(ctx); err != nil {
			return err
		}
	}

	var sessionManager *session.Manager
	if cfg.Session.Enabled {
		sqlDB, err := app.DB.DB.DB()
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		sessionManager, err = session.NewManager(sqlDB, session.Options{
			Lifetime:      cfg.Session.Lifetime,
			SecureCookies: cfg.Session.SecureCookies,
			CookiePath:    cfg.Site.Path + "/",
		})
		if err != nil {
			return fmt.Errorf("initialize session manager: %w", err)
		}
	}

	if cfg.Security.CSRFSecret == "" {
		log.Warn("CSRF protection disabled, set LINKDEPOT_CSRF_SECRET to enable it")
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       app.DB,
		Shelves:        app.Shelves,
		Links:          app.Links,
		Logger:         log,
		Favicons:       app.Favicons,
		SessionManager: sessionManager,
		CSRFSecret:     cfg.Security.CSRFSecret,
		SecureCookies:  cfg.Security.SecureCookies,
		Site:           web.Site{AppName: cfg.Site.AppName, BasePath: cfg.Site.Path},
		StaticPath:     cfg.Site.StaticPath,
		Version:        version,
	})
	if err != nil {
		return err
	}

	onShutdown := func(ctx context.Context) {
		if backfill != nil {
			backfill.Stop()
		}
		if app.taskClient != nil {
			app.taskClient.Stop(ctx)
		}
		cancel()
	}

	return Serve(router, cfg, log, onShutdown)
}
