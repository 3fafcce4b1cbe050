package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/meghashyamc/searchdesk/logger"
)

type SearchClient struct {
	transport *transport
}

func NewSearchClient(baseURL string, logger logger.Logger, opts ...Option) *SearchClient {
	return &SearchClient{transport: newTransport(baseURL, logger, opts...)}
}

// Search runs a paginated query. Pages are zero based.
func (c *SearchClient) Search(ctx context.Context, query string, page int, size int) (*SearchResponse, error) {
	const op = "search"

	if strings.TrimSpace(query) == "" {
		return nil, invalidArgument(op, "query must not be blank")
	}
	if page < 0 {
		return nil, invalidArgument(op, "page must not be negative")
	}
	if size <= 0 {
		return nil, invalidArgument(op, "size must be positive")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var response SearchResponse
	if err := c.transport.get(ctx, op, "/search", params, &response); err != nil {
		return nil, err
	}
	if response.PageSize == 0 {
		response.PageSize = size
	}
	if response.Results == nil {
		response.Results = []SearchResult{}
	}

	return &response, nil
}

func (c *SearchClient) GetSearchHistory(ctx context.Context) ([]SearchHistoryEntry, error) {
	history := []SearchHistoryEntry{}
	if err := c.transport.get(ctx, "get search history", "/search/history", nil, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []SearchHistoryEntry{}
	}

	return history, nil
}

func (c *SearchClient) GetPopularQueries(ctx context.Context, days int) ([]PopularQuery, error) {
	const op = "get popular queries"

	if days <= 0 {
		return nil, invalidArgument(op, "days must be positive")
	}

	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	popular := []PopularQuery{}
	if err := c.transport.get(ctx, op, "/search/popular", params, &popular); err != nil {
		return nil, err
	}
	if popular == nil {
		popular = []PopularQuery{}
	}

	return popular, nil
}

// GetAverageSearchTime returns the mean search latency in milliseconds, or
// nil when the backend has no data for the window. The backend reports an
// empty window as 0.
func (c *SearchClient) GetAverageSearchTime(ctx context.Context, days int) (*float64, error) {
	const op = "get average search time"

	if days <= 0 {
		return nil, invalidArgument(op, "days must be positive")
	}

	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var average *float64
	if err := c.transport.get(ctx, op, "/search/stats/average-time", params, &average); err != nil {
		return nil, err
	}
	if average == nil || *average <= 0 {
		return nil, nil
	}

	return average, nil
}
