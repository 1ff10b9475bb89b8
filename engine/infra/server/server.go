package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth"
	"github.com/meetly/meetly/engine/auth/oauth"
	authrouter "github.com/meetly/meetly/engine/auth/router"
	authuc "github.com/meetly/meetly/engine/auth/uc"
	bookingrouter "github.com/meetly/meetly/engine/booking/router"
	bookinguc "github.com/meetly/meetly/engine/booking/uc"
	"github.com/meetly/meetly/pkg/logger"
)

// APIBase is the versioned prefix all API routes live under.
const APIBase = "/api/v0"

type Config struct {
	Host string
	Port int
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dependencies carries everything the HTTP layer needs. The server owns
// no business logic; it only wires repositories and providers to routes.
type Dependencies struct {
	AuthRepo    authuc.Repository
	BookingRepo bookinguc.Repository
	Provider    oauth.Provider
	Session     authrouter.SessionConfig
}

type Server struct {
	config Config
	deps   Dependencies
	log    logger.Logger
}

func NewServer(config Config, deps Dependencies) *Server {
	return &Server{
		config: config,
		deps:   deps,
		log:    logger.GetDefault(),
	}
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := s.buildRouter()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mw := auth.NewMiddleware(s.deps.AuthRepo, s.deps.Session.CookieName)

	apiBase := router.Group(APIBase)
	apiBase.Use(mw.Resolve())
	authrouter.RegisterRoutes(apiBase, s.deps.AuthRepo, s.deps.Provider, mw, s.deps.Session)
	bookingrouter.RegisterRoutes(apiBase, s.deps.BookingRepo, mw)
	return router
}

// requestLogger attaches a request-scoped logger to the request context
// and emits one line per completed request.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With("method", c.Request.Method, "path", c.Request.URL.Path)
		ctx := logger.ContextWithLogger(c.Request.Context(), reqLog)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []any{"status", status, "duration", time.Since(start)}
		switch {
		case status >= http.StatusInternalServerError:
			reqLog.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("request rejected", fields...)
		default:
			reqLog.Info("request completed", fields...)
		}
	}
}
