package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/toolhunter/toolhunter/internal/analytics"
	"github.com/toolhunter/toolhunter/internal/cache"
	"github.com/toolhunter/toolhunter/models"
)

// Hunter runs the extraction pipeline.
type Hunter interface {
	Hunt(ctx context.Context, query string) ([]models.Tool, error)
}

// HuntHandler exposes POST /api/hunt.
type HuntHandler struct {
	Pipeline  Hunter
	Cache     *cache.ToolList
	Analytics *analytics.Client
}

func (h *HuntHandler) Register(g *echo.Group) {
	g.POST("/hunt", h.hunt)
}

type huntRequest struct {
	Query string `json:"query"`
}

type huntResponse struct {
	Success bool          `json:"success"`
	Tools   []models.Tool `json:"tools,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (h *HuntHandler) hunt(c echo.Context) error {
	var req huntRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	start := time.Now()
	tools, err := h.Pipeline.Hunt(c.Request().Context(), req.Query)
	huntDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// Provider, parse and store failures all collapse to one generic
		// failure signal at the route boundary.
		huntRequests.WithLabelValues(outcomeError).Inc()
		return c.JSON(http.StatusInternalServerError, huntResponse{Success: false, Error: "hunt failed"})
	}

	if len(tools) > 0 {
		huntRequests.WithLabelValues(outcomeOK).Inc()
		toolsPersisted.Add(float64(len(tools)))
		h.Cache.Invalidate(c.Request().Context())
	} else {
		huntRequests.WithLabelValues(outcomeEmpty).Inc()
	}
	h.Analytics.Capture("hunt", c.RealIP(), map[string]any{"query": req.Query, "tools": len(tools)})

	return c.JSON(http.StatusOK, huntResponse{Success: true, Tools: tools})
}
