// Package gin exposes the audit engine and audit history over an HTTP JSON
// API built on gin-gonic/gin.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Default API rate limit per client IP.
const (
	DefaultRequestsPerSecond = 2
	DefaultBurst             = 5
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Server serves the siteaudit HTTP API.
type Server struct {
	Auditor siteaudit.Auditor

	// Audits stores saved audits. Nil disables the history routes and
	// audit requests that ask to be saved.
	Audits siteaudit.AuditService

	// Metrics is served at /metrics when set.
	Metrics http.Handler

	// Token, when set, is required as a bearer token on audit routes.
	Token string

	// RequestsPerSecond and Burst configure the per-client rate limit.
	// Zero values use DefaultRequestsPerSecond and DefaultBurst.
	RequestsPerSecond float64
	Burst             int

	Logger *slog.Logger
}

// Handler builds the gin engine serving all routes.
func (s *Server) Handler() http.Handler {
	logger := s.logger()

	r := gin.New()
	r.Use(Recovery(logger), RequestLogger(logger))

	rps := s.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	burst := s.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}

	api := r.Group("/api", RateLimit(NewClientLimiter(rps, burst)))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		audits := api.Group("", BearerAuth(s.Token))
		audits.POST("/audit", s.handleAudit)
		if s.Audits != nil {
			audits.GET("/audits", s.handleListAudits)
			audits.GET("/audits/:id", s.handleGetAudit)
			audits.DELETE("/audits/:id", s.handleDeleteAudit)
		}
	}

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics))
	}

	return r
}

// ListenAndServe serves the API on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger().Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// writeError responds with the HTTP status for err's error code and its
// user-facing message.
func writeError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": siteaudit.ErrorMessage(err)})
}

func errorStatus(err error) int {
	switch siteaudit.ErrorCode(err) {
	case siteaudit.EINVALID:
		return http.StatusBadRequest
	case siteaudit.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
