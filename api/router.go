package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/api/handlers"
	"github.com/meghashyamc/searchdesk/config"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/services/analytics"
	"github.com/meghashyamc/searchdesk/services/search"
	"github.com/meghashyamc/searchdesk/ui"
	"github.com/meghashyamc/searchdesk/validation"
)

// clients are the backend clients the router wires into its handlers.
type clients struct {
	search    search.Searcher
	stats     analytics.SearchStats
	documents interface {
		handlers.DocumentIndexer
		handlers.DocumentManager
	}
}

func setupRoutes(router *gin.Engine, cfg *config.Config, logger logger.Logger, clients clients, validator *validation.Validator) {
	router.GET("/health", health())

	router.StaticFS("/ui", http.FS(ui.Static()))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/search")
	})

	settings := handlers.Settings{
		BannerDismiss:  cfg.GetBannerDismiss(),
		RecentSearches: cfg.GetRecentSearches(),
		PanelDays:      cfg.GetPanelDays(),
		AnalyticsDays:  cfg.GetAnalyticsDays(),
	}

	searchService := search.New(logger, clients.search, cfg.GetPageSize())
	analyticsService := analytics.New(logger, clients.stats, clients.documents)

	handlers.SetupSearch(router, logger, searchService, analyticsService, validator, settings)

	limiter := newIPRateLimiter(cfg.GetRateLimitPerMinute(), cfg.GetRateLimitBurst(), settings, logger)
	admin := router.Group("/admin", limiter.limitWrites())
	admin.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/upload")
	})
	handlers.SetupUpload(admin, logger, clients.documents, validator, settings)
	handlers.SetupDocuments(admin, logger, clients.documents, validator, settings)
	handlers.SetupAnalytics(admin, analyticsService, settings)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(cfg *config.Config, logger logger.Logger) (*gin.Engine, error) {
	templates, err := ui.Templates()
	if err != nil {
		logger.Error("could not parse templates", "err", err.Error())
		return nil, err
	}

	router := gin.New()
	router.UseRawPath = true
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware(cfg.GetCORSOrigins()))
	router.SetHTMLTemplate(templates)

	return router, nil
}
