package search

import (
	"context"
	"errors"
	"strings"

	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/logger"
)

var ErrEmptyQuery = errors.New("search query is empty")

// Searcher is the part of backend.SearchClient the search page needs.
type Searcher interface {
	Search(ctx context.Context, query string, page int, size int) (*backend.SearchResponse, error)
	GetSearchHistory(ctx context.Context) ([]backend.SearchHistoryEntry, error)
}

type Service struct {
	logger   logger.Logger
	searcher Searcher
	pageSize int
}

type Page struct {
	Query      string                  `json:"query"`
	Response   *backend.SearchResponse `json:"response"`
	Pagination Pagination              `json:"pagination"`
}

func New(logger logger.Logger, searcher Searcher, pageSize int) *Service {
	return &Service{
		logger:   logger,
		searcher: searcher,
		pageSize: pageSize,
	}
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// Search fetches one page of results. A page past the end is replaced by
// the last page once the total is known.
func (s *Service) Search(ctx context.Context, query string, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	page = max(0, page)

	response, err := s.searcher.Search(ctx, query, page, s.pageSize)
	if err != nil {
		s.logger.Error("search failed", "query", query, "page", page, "err", err.Error())
		return nil, err
	}

	if totalPages := response.TotalPages(); totalPages > 0 && page >= totalPages {
		lastPage := totalPages - 1
		s.logger.Info("requested page is out of range, showing last page", "query", query, "page", page, "last_page", lastPage)
		response, err = s.searcher.Search(ctx, query, lastPage, s.pageSize)
		if err != nil {
			s.logger.Error("search failed", "query", query, "page", lastPage, "err", err.Error())
			return nil, err
		}
		page = lastPage
	}

	pageSize := response.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	return &Page{
		Query:      query,
		Response:   response,
		Pagination: calculatePagination(response.TotalResults, pageSize, page),
	}, nil
}

// RecentQueries returns the newest n history entries. History is decoration
// on the search page, so failures are logged and yield an empty list.
func (s *Service) RecentQueries(ctx context.Context, n int) []backend.SearchHistoryEntry {
	history, err := s.searcher.GetSearchHistory(ctx)
	if err != nil {
		s.logger.Warn("could not load recent searches", "err", err.Error())
		return []backend.SearchHistoryEntry{}
	}

	if n >= 0 && len(history) > n {
		history = history[:n]
	}

	return history
}
