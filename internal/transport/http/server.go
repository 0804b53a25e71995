package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"inkwell/backend/internal/service/availability"
	"inkwell/backend/internal/service/booking"
	"inkwell/backend/internal/store"
)

type Config struct {
	JWTSecret      string
	RequestTimeout time.Duration
}

// NewServer wires the REST surface: middleware, health check, and the
// booking and calendar handler groups under /v1. With no JWT secret
// configured, authentication is disabled and actor identity comes from the
// request itself (development mode).
func NewServer(bookingSvc *booking.Service, availSvc *availability.Service, catalog store.CatalogRepository, log *slog.Logger, cfg Config) *echo.Echo {
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(log))
	if cfg.RequestTimeout > 0 {
		e.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{Timeout: cfg.RequestTimeout}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/v1")
	if cfg.JWTSecret != "" {
		v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
	} else {
		log.Warn("jwt secret not configured; authentication disabled")
	}

	NewBookingHandler(bookingSvc, log).Register(v1)
	NewCalendarHandler(availSvc, catalog, log).Register(v1)

	return e
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
