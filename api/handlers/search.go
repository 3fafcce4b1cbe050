package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/services/analytics"
	"github.com/meghashyamc/searchdesk/services/search"
	"github.com/meghashyamc/searchdesk/validation"
)

const emptyQueryMessage = "Please enter a search query"

var sampleQueries = []string{"java", "spring", "search"}

type SearchRequest struct {
	Query string `form:"q" validate:"valid_query,max=1000"`
	Page  int    `form:"page"`
}

type searchPage struct {
	layout
	Query         string                       `json:"query"`
	Result        *search.Page                 `json:"result,omitempty"`
	Recent        []backend.SearchHistoryEntry `json:"recent"`
	Panel         *analytics.Panel             `json:"panel,omitempty"`
	SampleQueries []string                     `json:"-"`
}

func SetupSearch(router gin.IRouter, logger logger.Logger, service *search.Service, stats *analytics.Service, validator *validation.Validator, settings Settings) {
	router.GET("/search", handleSearch(service, stats, logger, validator, settings))
}

func handleSearch(service *search.Service, stats *analytics.Service, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := searchPage{
			layout:        layout{Title: "Search", Section: "search"},
			SampleQueries: sampleQueries,
		}

		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			page.Banner = settings.danger("failed to extract request parameters")
			page.Recent = service.RecentQueries(c.Request.Context(), settings.RecentSearches)
			writePage(c, http.StatusUnprocessableEntity, "search.html", page)
			return
		}
		page.Query = request.Query

		// A bare /search is the landing page, not an empty query.
		if _, submitted := c.GetQuery("q"); !submitted {
			page.Recent = service.RecentQueries(c.Request.Context(), settings.RecentSearches)
			writePage(c, http.StatusOK, "search.html", page)
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			message := err.Error()
			if errors.Is(err, validation.ErrInvalidQuery) {
				message = emptyQueryMessage
			}
			page.Banner = settings.danger(message)
			page.Recent = service.RecentQueries(c.Request.Context(), settings.RecentSearches)
			writePage(c, http.StatusNotAcceptable, "search.html", page)
			return
		}

		result, err := service.Search(c.Request.Context(), request.Query, request.Page)
		if err != nil {
			page.Recent = service.RecentQueries(c.Request.Context(), settings.RecentSearches)
			if errors.Is(err, search.ErrEmptyQuery) {
				page.Banner = settings.danger(emptyQueryMessage)
				writePage(c, http.StatusNotAcceptable, "search.html", page)
				return
			}
			logger.Error("search failed", "query", request.Query, "err", err.Error())
			page.Banner = settings.danger("An error occurred while searching. Please try again.")
			writePage(c, statusForBackendError(err), "search.html", page)
			return
		}

		panel := stats.Panel(c.Request.Context(), settings.PanelDays)

		page.Query = result.Query
		page.Result = result
		page.Panel = &panel
		writePage(c, http.StatusOK, "search.html", page)
	}
}
