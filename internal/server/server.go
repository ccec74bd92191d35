package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spacesedan/mood2emoji/internal/mood"
)

// healthChecker reports whether a dependency can serve requests
type healthChecker interface {
	Healthy(ctx context.Context) bool
}

type namedCheck struct {
	name    string
	checker healthChecker
}

type Server struct {
	echo       *echo.Echo
	classifier *mood.Classifier
	checks     []namedCheck
	startTime  time.Time
}

type Option func(*Server)

// WithHealthCheck adds a dependency to the readiness probe.
func WithHealthCheck(name string, checker healthChecker) Option {
	return func(s *Server) {
		s.checks = append(s.checks, namedCheck{name: name, checker: checker})
	}
}

func NewServer(classifier *mood.Classifier, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("[Server] Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID))
			return nil
		},
	}))

	srv := &Server{
		echo:       e,
		classifier: classifier,
		startTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start(port string) error {
	slog.Info("[Server] Starting server", slog.String("port", port))
	return s.echo.Start(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
