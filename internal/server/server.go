// Package server hosts the HTTP surface: webhook ingest, health and status.
package server

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deskhandai/deskhand/internal/auth"
)

// Handler registers a group of routes on the echo instance.
type Handler interface {
	Register(e *echo.Echo)
}

type Server struct {
	echo *echo.Echo
	addr string
}

// requestValidator adapts go-playground/validator to echo's Validator hook.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// open paths skip bearer auth: health probes and status need no secret.
func skipAuth(c echo.Context) bool {
	switch c.Request().URL.Path {
	case "/ping", "/health", "/status":
		return true
	}
	return false
}

func New(log *slog.Logger, addr, webhookToken string, handlers []Handler) *Server {
	if addr == "" {
		addr = ":8080"
	}
	if webhookToken == "" {
		log.Warn("webhook token not configured, accepting unauthenticated requests")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))
	e.Use(auth.BearerMiddleware(webhookToken, skipAuth))

	for _, h := range handlers {
		if h != nil {
			h.Register(e)
		}
	}

	return &Server{echo: e, addr: addr}
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
