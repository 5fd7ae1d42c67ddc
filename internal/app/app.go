package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/apiclient"
	"github.com/simp-lee/hrdash/internal/config"
	"github.com/simp-lee/hrdash/internal/listctl"
	"github.com/simp-lee/hrdash/internal/metrics"
	"github.com/simp-lee/hrdash/internal/middleware"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
	"github.com/simp-lee/hrdash/web"
)

// sweepInterval is how often idle dashboard sessions are expired.
const sweepInterval = time.Minute

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine  *gin.Engine
	db      *gorm.DB
	logger  *logger.Logger
	cfg     *config.Config
	janitor *screen.Janitor
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, metrics, the optional HR API client, the
// entity modules with their screens, middleware, template rendering, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes hot-reloaded templates and unauthenticated screens")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database (includes connection pool configuration).
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := config.CloseDatabase(db); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. AutoMigrate in debug mode only; other modes use the migrate command.
	if cfg.Server.Mode == gin.DebugMode {
		if err := config.Migrate(context.Background(), db, log.Logger); err != nil {
			return nil, err
		}
	}

	// 4. Metrics on a private registry so several Apps can coexist in tests.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := metrics.NewObserver(registry)

	// 5. Screens read through the remote HR API when one is configured.
	var apiClient *apiclient.Client
	if cfg.Dashboard.Remote() {
		apiClient, err = newAPIClient(&cfg.Dashboard, log.Logger, observer)
		if err != nil {
			return nil, fmt.Errorf("setup api client: %w", err)
		}
		log.Info("dashboard uses remote HR API", slog.String("base_url", cfg.Dashboard.APIBaseURL))
	}

	janitor := screen.NewJanitor(config.Duration(cfg.Dashboard.SessionTTL, 30*time.Minute))
	deps := entity.Deps{
		DB:     db,
		Client: apiClient,
		Screens: screen.Options{
			Observer:  observer,
			PageSizes: pageSizePolicy(&cfg.Dashboard),
			Validator: listctl.NewValidator(),
			Lookups:   screen.NewLookups(),
			Janitor:   janitor,
			Logger:    config.ComponentLogger(log.Logger, "screen"),
		},
	}

	// 6. Manual dependency injection: every module builds its own
	// repository, service, API handler and screen.
	modules := buildModules(deps)
	nav := navItems(modules)

	// 7. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
	)

	// 8. Determine filesystem mode and set up template renderer.
	var fsys fs.FS
	if cfg.Server.Mode == gin.DebugMode {
		fsys, err = resolveDebugWebFS()
		if err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	} else {
		fsys = web.EmbeddedFS
	}

	renderer, err := NewTemplateRenderer(fsys, cfg.Server.Mode == gin.DebugMode,
		WithFuncs(template.FuncMap{
			"nav": func() []NavItem { return nav },
		}))
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	// 9. Register all routes.
	routeDeps := &RouteDeps{
		Modules: modules,
		Nav:     nav,
		DB:      db,
		Mode:    cfg.Server.Mode,
	}
	if cfg.Metrics.Enabled {
		routeDeps.Metrics = metrics.Handler(registry)
		routeDeps.MetricsPath = cfg.Metrics.Path
	}
	if err := RegisterRoutes(engine, routeDeps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:  engine,
		db:      db,
		logger:  log,
		cfg:     cfg,
		janitor: janitor,
	}, nil
}

// Handler returns the configured HTTP handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

func newAPIClient(cfg *config.DashboardConfig, log *slog.Logger, observer *metrics.Observer) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Config{
		BaseURL:         cfg.APIBaseURL,
		Token:           cfg.APIToken,
		Timeout:         config.Duration(cfg.RequestTimeout, 10*time.Second),
		MaxRetries:      uint64(max(cfg.Retry.MaxRetries, 0)),
		InitialInterval: config.Duration(cfg.Retry.InitialInterval, 200*time.Millisecond),
	},
		apiclient.WithLogger(config.ComponentLogger(log, "apiclient")),
		apiclient.WithObserver(observer.APIRequest),
	)
}

// pageSizePolicy falls back to the built-in selector when the config was not
// loaded through config.Load (tests build it by hand).
func pageSizePolicy(cfg *config.DashboardConfig) listctl.PageSizePolicy {
	if cfg.DefaultPageSize <= 0 || len(cfg.PageSizes) == 0 {
		return listctl.DefaultPageSizes
	}
	return listctl.PageSizePolicy{Default: cfg.DefaultPageSize, Allowed: cfg.PageSizes}
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It expires idle dashboard sessions in the background, performs graceful
// shutdown with a 5-second timeout and closes the database connection.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.janitor != nil {
		go a.janitor.Run(ctx, sweepInterval)
	}

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		if a.logger != nil {
			a.logger.Info("server started", slog.String("addr", addr))
		} else {
			slog.Info("server started", slog.String("addr", addr))
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown signal received")
		} else {
			slog.Info("shutdown signal received")
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		// Graceful shutdown with 5-second deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			if a.logger != nil {
				a.logger.Error("server shutdown error", slog.Any("error", err))
			} else {
				slog.Error("server shutdown error", slog.Any("error", err))
			}
		}
	}

	// Close database connection.
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				if a.logger != nil {
					a.logger.Error("database close error", slog.Any("error", err))
				} else {
					slog.Error("database close error", slog.Any("error", err))
				}
			} else {
				if a.logger != nil {
					a.logger.Info("database connection closed")
				} else {
					slog.Info("database connection closed")
				}
			}
		}
	}

	if a.logger != nil {
		a.logger.Info("server stopped")
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	} else {
		slog.Info("server stopped")
	}

	if runErr != nil {
		return runErr
	}

	return nil
}
