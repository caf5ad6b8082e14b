package http

import (
	"chatoverlay/internal/app/adapters/http/handlers"
	"chatoverlay/internal/app/adapters/http/middlewares"
	"chatoverlay/internal/app/infrastructure/config"
	"chatoverlay/pkg/logger"
	"context"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/acme/autocert"
	"log/slog"
	"net/http"
	"time"
)

const certCacheDir = "certs"

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, h *handlers.Handlers) *Router {
	r := &Router{
		router:      gin.New(),
		handlers:    h,
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	r.router.Use(gin.Recovery())
	cfg := manager.Get()

	if cfg.App.AuthToken != "" {
		pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		}))
		pprof.Register(pprofGroup)

		r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		}), gin.WrapH(promhttp.Handler()))
	}

	api := r.router.Group("/api")
	api.GET("/messages", r.handlers.MessagesHandler)
	api.GET("/ws", r.handlers.WSHandler)
	api.GET("/health", r.handlers.HealthHandler)
	api.POST("/directory/reload", r.middlewares.Auth(cfg.App.AuthToken), r.handlers.ReloadHandler)

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is done. With cert_domains configured it serves HTTPS with
// certificates from Let's Encrypt and answers ACME challenges on :80.
func (r *Router) Run(ctx context.Context) error {
	cfg := r.manager.Get()

	var srv *http.Server
	var serve func() error

	if len(cfg.App.CertDomains) > 0 {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.App.CertDomains...),
			Cache:      autocert.DirCache(certCacheDir),
		}

		challenge := r.newServer(":80", m.HTTPHandler(nil))
		go func() {
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				r.log.Error("ACME challenge server stopped", err)
			}
		}()
		defer challenge.Close()

		srv = r.newServer(":443", r.router)
		srv.TLSConfig = m.TLSConfig()
		serve = func() error { return srv.ListenAndServeTLS("", "") }
	} else {
		srv = r.newServer(cfg.App.Listen, r.router)
		serve = srv.ListenAndServe
	}

	errCh := make(chan error, 1)
	go func() { errCh <- serve() }()
	r.log.Info("HTTP server started", slog.String("addr", srv.Addr), slog.Bool("tls", srv.TLSConfig != nil))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
