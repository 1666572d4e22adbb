// Package app wires together all dependencies and runs the admin gateway.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omarantar7/dentalcare-admin/internal/auth"
	"github.com/omarantar7/dentalcare-admin/internal/clinic"
	"github.com/omarantar7/dentalcare-admin/internal/config"
	"github.com/omarantar7/dentalcare-admin/internal/guard"
	"github.com/omarantar7/dentalcare-admin/internal/handler"
	"github.com/omarantar7/dentalcare-admin/internal/scope"
	"github.com/omarantar7/dentalcare-admin/internal/session"
	"github.com/omarantar7/dentalcare-admin/pkg/health"
	"github.com/omarantar7/dentalcare-admin/pkg/httpclient"
	"github.com/omarantar7/dentalcare-admin/pkg/middleware"
	"github.com/omarantar7/dentalcare-admin/pkg/tracing"
)

// App runs the admin gateway: one HTTP server fronting per-browser session
// scopes over the clinic backend API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	registry       *scope.Registry
	redisClient    *redis.Client
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "admin",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	var redisClient *redis.Client
	if cfg.SessionBackend == "redis" {
		redisClient, err = session.NewRedisClient(ctx, session.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	// One shared transport to the clinic API, pooled and fused. Retries
	// stay off: a rejected or failed auth call must surface as-is.
	base := httpclient.New(httpclient.Config{
		Timeout:         cfg.ClinicAPITimeout,
		MaxRetries:      0,
		MaxConnsPerHost: 100,
	})
	clinicDoer := httpclient.NewCircuitBreakerClient(base,
		httpclient.DefaultCircuitBreakerConfig("clinic-api"), logger)

	factory := func(ctx context.Context, id string) (*scope.Scope, error) {
		var store session.Store
		if redisClient != nil {
			store = session.NewRedisStore(redisClient, id, cfg.ScopeTTL)
		} else {
			store = session.NewMemoryStore()
		}

		client := clinic.New(cfg.ClinicAPIURL, clinicDoer, store, logger)
		manager := auth.NewManager(client, store, logger,
			auth.WithVerifyTimeout(cfg.VerifyTimeout),
		)
		client.OnUnauthorized(manager.Invalidate)
		manager.Hydrate(ctx)

		return &scope.Scope{
			ID:      id,
			Store:   store,
			Client:  client,
			Manager: manager,
			Guard:   guard.New(manager, guard.DefaultRoutes(), logger),
		}, nil
	}

	registry := scope.NewRegistry(factory, cfg.ScopeTTL, logger)
	codec := scope.NewCookieCodec(cfg.ScopeCookieName, cfg.ScopeCookieSecret, cfg.ScopeTTL, cfg.CookieSecure)

	healthHandler := health.NewHandler()
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	// The clinic backend being down degrades the gateway but should not
	// flip readiness: the login page and health surface stay serveable.
	healthHandler.RegisterNonCritical("clinic-api", func(ctx context.Context) error {
		u, err := url.Parse(cfg.ClinicAPIURL)
		if err != nil {
			return fmt.Errorf("parse clinic API URL: %w", err)
		}
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return fmt.Errorf("clinic API unreachable: %w", err)
		}
		_ = conn.Close()
		return nil
	})

	router := handler.NewRouter(handler.RouterConfig{
		Codec:         codec,
		Registry:      registry,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			Environment:      cfg.Environment,
		},
		LoginRateRPS:   cfg.LoginRateLimitRPS,
		LoginRateBurst: cfg.LoginRateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		registry:       registry,
		redisClient:    redisClient,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and scope eviction and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	evictCtx, evictCancel := context.WithCancel(ctx)
	defer evictCancel()
	go a.registry.Run(evictCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("session_backend", a.cfg.SessionBackend),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the gateway: drain in-flight requests, flush
// pending spans, then close the session backend.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
