// Package server builds the HTTP handlers for the two listeners and runs them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"signup-backend/metrics"
	"signup-backend/subscriptions"
	"signup-backend/web"
)

// NewAPIRouter serves the subscription API plus /metrics. Any origin may call it.
func NewAPIRouter(h *subscriptions.Handler, m *metrics.Metrics, log *slog.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log.With("server", "api")), m.Middleware())
	h.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	})
	return c.Handler(r)
}

// NewWebRouter serves the sign-up screens. A non-empty staticDir is served
// for GET and HEAD requests no screen route matches.
func NewWebRouter(h *web.Handler, staticDir string, log *slog.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log.With("server", "web")))
	h.RegisterRoutes(r)
	if staticDir != "" {
		files := http.FileServer(http.Dir(staticDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
	return r
}

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request", attrs...)
			return
		}
		log.Info("request", attrs...)
	}
}

// Run serves every srv until ctx is cancelled or one of them fails, then shuts
// all of them down within timeout.
func Run(ctx context.Context, log *slog.Logger, timeout time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		log.Info("servers stopped")
		return errors.Join(errs...)
	})
	return g.Wait()
}
