package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/catalog"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/config"
	handlersPkg "github.com/xdemocle/victorinox-tomato-knife-shop/internal/handlers"
	mw "github.com/xdemocle/victorinox-tomato-knife-shop/internal/middleware"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/observability"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/variant"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg, cfgErr := config.Load()

	// A failed config load leaves Log.Level empty, which means info.
	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	if cfgErr != nil {
		var invalid *config.ValidationError
		if errors.As(cfgErr, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(cfgErr))
	}

	var (
		tmplPath string
		pubPath  string
	)
	flag.StringVar(&tmplPath, "templates", cfg.Assets.TemplatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", cfg.Assets.PublicDir, "public assets directory")
	flag.Parse()

	rd, err := newRenderer(tmplPath, cfg.Assets.Dev)
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}

	cat := catalog.Default()
	selector := variant.NewSelector(cat.Variants(), nil)
	if cfg.Pricing.VariantSeed != nil {
		selector = variant.NewSeeded(cat.Variants(), *cfg.Pricing.VariantSeed)
	}
	page, err := handlersPkg.NewProductPage(cat, selector, cfg.Site.BaseURL)
	if err != nil {
		logger.Fatal("build product page", zap.Error(err))
	}

	a := &app{
		page:          page,
		render:        rd,
		logger:        logger,
		countryHeader: cfg.Pricing.CountryHeader,
		publicDir:     pubPath,
		traceProject:  cfg.Trace.ProjectID,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.Bool("dev", cfg.Assets.Dev),
			zap.String("env", cfg.Site.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("listen", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newRouter wires middleware and routes.
func newRouter(a *app) http.Handler {
	return newRouterWith(a, nil)
}

// newRouterWith is newRouter with extra routes registered behind the same
// middleware stack.
func newRouterWith(a *app, add func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(observability.TraceMiddleware(a.traceProject))
	r.Use(observability.InjectLoggerMiddleware(a.logger))
	r.Use(observability.RequestLoggerMiddleware(a.countryHeader))
	r.Use(observability.RecoveryMiddleware(a.logger, a.Panic))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(mw.HTMX)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets under /assets/
	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(a.publicDir, "assets"), ""))
	r.Handle("/assets/*", assets)

	// Price and locale depend on request headers.
	r.Group(func(r chi.Router) {
		r.Use(mw.Geo(a.countryHeader))
		r.Use(mw.ResolveLocale)
		r.Use(mw.Vary(a.countryHeader))

		r.Get("/", a.ProductHandler)
		r.Get("/gallery/{imageID}", a.GalleryFrag)
		r.Get("/api/product", a.ProductJSON)
	})

	if add != nil {
		add(r)
	}

	r.NotFound(a.NotFound)
	r.MethodNotAllowed(a.MethodNotAllowed)
	return r
}
