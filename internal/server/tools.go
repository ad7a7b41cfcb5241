package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/toolhunter/toolhunter/internal/cache"
	"github.com/toolhunter/toolhunter/internal/catalog"
	"github.com/toolhunter/toolhunter/models"
)

// ToolLister is the slice of the store the directory endpoints need.
type ToolLister interface {
	ListTools(ctx context.Context) ([]models.Tool, error)
	GetToolBySlug(ctx context.Context, slug string) (models.Tool, error)
	RecordVote(ctx context.Context, toolID int64, voterID string) (int64, bool, error)
}

// ToolsHandler exposes the read side of the directory plus votes.
type ToolsHandler struct {
	Store ToolLister
	Cache *cache.ToolList
}

func (h *ToolsHandler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/:slug", h.get)
	g.POST("/:id/vote", h.vote)
}

// list returns all tools newest first, optionally filtered by ?q= and
// ?category=. The unfiltered list is served from cache when available.
func (h *ToolsHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	tools, ok := h.Cache.Get(ctx)
	if !ok {
		var err error
		tools, err = h.Store.ListTools(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.Cache.Set(ctx, tools)
	}

	q := c.QueryParam("q")
	category := c.QueryParam("category")
	tools = catalog.Filter(tools, q, category)
	if tools == nil {
		tools = []models.Tool{}
	}
	return c.JSON(http.StatusOK, tools)
}

func (h *ToolsHandler) get(c echo.Context) error {
	tool, err := h.Store.GetToolBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, models.ErrToolNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "tool not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tool)
}

type voteRequest struct {
	Voter string `json:"voter"`
}

type voteResponse struct {
	Success bool  `json:"success"`
	Votes   int64 `json:"votes"`
	Counted bool  `json:"counted"`
}

// vote registers one vote per voter per tool. The voter id is a
// client-generated opaque id; an absent one gets a fresh UUID, which makes
// the vote count but never dedup.
func (h *ToolsHandler) vote(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).Int64("id", &id).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tool id")
	}
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Voter == "" {
		req.Voter = uuid.NewString()
	}

	votes, counted, err := h.Store.RecordVote(c.Request().Context(), id, req.Voter)
	if errors.Is(err, models.ErrToolNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "tool not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if counted {
		h.Cache.Invalidate(c.Request().Context())
	}
	return c.JSON(http.StatusOK, voteResponse{Success: true, Votes: votes, Counted: counted})
}
