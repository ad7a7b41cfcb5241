package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/toolhunter/toolhunter/config"
	"github.com/toolhunter/toolhunter/internal/analytics"
	"github.com/toolhunter/toolhunter/internal/cache"
	"github.com/toolhunter/toolhunter/internal/consult"
	"github.com/toolhunter/toolhunter/internal/hunt"
	"github.com/toolhunter/toolhunter/internal/store"
	"github.com/toolhunter/toolhunter/provider"
	"github.com/toolhunter/toolhunter/tools/web_search"
)

// Run wires every dependency explicitly at startup and blocks serving HTTP.
// Provider API keys are deliberately not validated here: a missing key fails
// the first request that needs it, not the boot.
func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"success": false, "error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		baseLogger.Printf("migrate: %v", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
	if err != nil {
		return err
	}
	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), provider.Options{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})
	if err != nil {
		return err
	}

	var listCache *cache.ToolList
	if cfg.Storage.Redis.Host != "" {
		rc, err := cache.Conn(ctx, cfg.Storage.Redis.Host, cfg.Storage.Redis.Port,
			cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, cfg.General.DefaultTimeout)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		listCache = cache.NewToolList(rc, cfg.Storage.Redis.TTL, nil)
	}

	events := analytics.New(cfg.Analytics.APIKey, cfg.Analytics.Host, nil)

	api := e.Group("/api")

	hh := &HuntHandler{
		Pipeline:  hunt.New(searcher, llm, st, cfg.LLM.ExtractionModel, cfg.Search.MaxResults, nil),
		Cache:     listCache,
		Analytics: events,
	}
	hh.Register(api)

	ch := &ConsultHandler{
		Pipeline:  consult.New(llm, st, cfg.LLM.ConsultModel, nil),
		Analytics: events,
	}
	ch.Register(api)

	th := &ToolsHandler{Store: st, Cache: listCache}
	th.Register(api.Group("/tools"))

	baseLogger.Printf("listening on %s", cfg.Server.Address)
	return e.Start(cfg.Server.Address)
}
