package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/services/analytics"
)

type analyticsPage struct {
	layout
	Dashboard analytics.Dashboard `json:"dashboard"`
}

func SetupAnalytics(router gin.IRouter, stats *analytics.Service, settings Settings) {
	router.GET("/analytics", handleAnalytics(stats, settings))
}

// handleAnalytics always renders. Sources that failed show as empty or N/A.
func handleAnalytics(stats *analytics.Service, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		writePage(c, http.StatusOK, "analytics.html", analyticsPage{
			layout:    layout{Title: "Analytics", Section: "admin", Tab: "analytics"},
			Dashboard: stats.Dashboard(c.Request.Context(), settings.AnalyticsDays),
		})
	}
}
