package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"inkwell/backend/internal/service/availability"
	"inkwell/backend/internal/store"
)

// CalendarHandler exposes the read-only availability, calendar and catalog
// queries.
type CalendarHandler struct {
	avail   *availability.Service
	catalog store.CatalogRepository
	log     *slog.Logger
}

func NewCalendarHandler(avail *availability.Service, catalog store.CatalogRepository, log *slog.Logger) *CalendarHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CalendarHandler{
		avail:   avail,
		catalog: catalog,
		log:     log.With(slog.String("component", "http.calendar")),
	}
}

func (h *CalendarHandler) Register(g *echo.Group) {
	g.GET("/providers/:id/availability", h.Availability)
	g.GET("/providers/:id/calendar", h.Calendar)
	g.GET("/services", h.ListServices)
	g.GET("/services/:id", h.GetService)
}

func (h *CalendarHandler) Availability(c echo.Context) error {
	providerID := c.Param("id")

	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	var serviceID uuid.UUID
	if raw := c.QueryParam("service_id"); raw != "" {
		serviceID, err = uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "service_id must be a UUID")
		}
	}

	var override time.Duration
	if raw := c.QueryParam("duration_minutes"); raw != "" {
		minutes, err := time.ParseDuration(raw + "m")
		if err != nil || minutes <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "duration_minutes must be a positive integer")
		}
		override = minutes
	}

	slots, err := h.avail.ComputeSlots(c.Request().Context(), providerID, date.UTC(), serviceID, override)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"date": date.Format("2006-01-02"), "slots": slots})
}

func (h *CalendarHandler) Calendar(c echo.Context) error {
	providerID := c.Param("id")

	anchor, err := time.Parse("2006-01-02", c.QueryParam("anchor"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "anchor must be YYYY-MM-DD")
	}
	anchor = anchor.UTC()

	ctx := c.Request().Context()
	switch view := c.QueryParam("view"); view {
	case "month", "":
		grid, err := h.avail.Month(ctx, providerID, anchor)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, grid)
	case "week":
		grid, err := h.avail.Week(ctx, providerID, anchor)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, grid)
	case "day":
		grid, err := h.avail.Day(ctx, providerID, anchor)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, grid)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "view must be month, week or day")
	}
}

func (h *CalendarHandler) ListServices(c echo.Context) error {
	services, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"services": services})
}

func (h *CalendarHandler) GetService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "service id must be a UUID")
	}
	svc, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, svc)
}
