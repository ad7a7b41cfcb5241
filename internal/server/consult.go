package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/toolhunter/toolhunter/internal/analytics"
	"github.com/toolhunter/toolhunter/models"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, query string) (*models.Tool, string, error)
}

// ConsultHandler exposes POST /api/consult.
type ConsultHandler struct {
	Pipeline  Recommender
	Analytics *analytics.Client
}

func (h *ConsultHandler) Register(g *echo.Group) {
	g.POST("/consult", h.consult)
}

type consultRequest struct {
	Query string `json:"query"`
}

type consultResponse struct {
	Success        bool         `json:"success"`
	Recommendation *models.Tool `json:"recommendation,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	Error          string       `json:"error,omitempty"`
}

func (h *ConsultHandler) consult(c echo.Context) error {
	var req consultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	start := time.Now()
	tool, reason, err := h.Pipeline.Recommend(c.Request().Context(), req.Query)
	consultDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		consultRequests.WithLabelValues(outcomeError).Inc()
		return c.JSON(http.StatusInternalServerError, consultResponse{Success: false, Error: "consult failed"})
	}

	// No recommendation is a normal outcome, not an error.
	if tool == nil {
		consultRequests.WithLabelValues(outcomeEmpty).Inc()
	} else {
		consultRequests.WithLabelValues(outcomeOK).Inc()
	}
	h.Analytics.Capture("consult", c.RealIP(), map[string]any{"query": req.Query, "matched": tool != nil})

	return c.JSON(http.StatusOK, consultResponse{Success: true, Recommendation: tool, Reason: reason})
}
