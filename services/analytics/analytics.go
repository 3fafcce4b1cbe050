package analytics

import (
	"context"

	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/logger"
	"golang.org/x/sync/errgroup"
)

// SearchStats is the part of backend.SearchClient the dashboards read.
type SearchStats interface {
	GetSearchHistory(ctx context.Context) ([]backend.SearchHistoryEntry, error)
	GetPopularQueries(ctx context.Context, days int) ([]backend.PopularQuery, error)
	GetAverageSearchTime(ctx context.Context, days int) (*float64, error)
}

// DocumentStats is the part of backend.DocumentClient the dashboards read.
type DocumentStats interface {
	GetDocumentStats(ctx context.Context) (*backend.DocumentStats, error)
}

type Service struct {
	logger    logger.Logger
	search    SearchStats
	documents DocumentStats
}

// Dashboard is the analytics tab. A nil AverageSearchTime or DocumentStats
// means the value is unavailable.
type Dashboard struct {
	Days              int                          `json:"days"`
	RecentSearches    []backend.SearchHistoryEntry `json:"recentSearches"`
	PopularQueries    []backend.PopularQuery       `json:"popularQueries"`
	AverageSearchTime *float64                     `json:"averageSearchTime"`
	DocumentStats     *backend.DocumentStats       `json:"documentStats"`
}

// Panel is the small stats box next to search results.
type Panel struct {
	Days              int                    `json:"days"`
	AverageSearchTime *float64               `json:"averageSearchTime"`
	PopularQueries    []backend.PopularQuery `json:"popularQueries"`
	DocumentCount     int64                  `json:"documentCount"`
}

func New(logger logger.Logger, search SearchStats, documents DocumentStats) *Service {
	return &Service{
		logger:    logger,
		search:    search,
		documents: documents,
	}
}

// Dashboard loads the four analytics sources concurrently. A failed source
// is logged and defaulted without affecting the others.
func (s *Service) Dashboard(ctx context.Context, days int) Dashboard {
	dashboard := Dashboard{
		Days:           days,
		RecentSearches: []backend.SearchHistoryEntry{},
		PopularQueries: []backend.PopularQuery{},
	}

	var group errgroup.Group

	group.Go(func() error {
		history, err := s.search.GetSearchHistory(ctx)
		if err != nil {
			s.logger.Warn("could not load search history for analytics", "err", err.Error())
			return nil
		}
		dashboard.RecentSearches = history
		return nil
	})

	group.Go(func() error {
		popular, err := s.search.GetPopularQueries(ctx, days)
		if err != nil {
			s.logger.Warn("could not load popular queries for analytics", "days", days, "err", err.Error())
			return nil
		}
		dashboard.PopularQueries = popular
		return nil
	})

	group.Go(func() error {
		average, err := s.search.GetAverageSearchTime(ctx, days)
		if err != nil {
			s.logger.Warn("could not load average search time for analytics", "days", days, "err", err.Error())
			return nil
		}
		dashboard.AverageSearchTime = average
		return nil
	})

	group.Go(func() error {
		stats, err := s.documents.GetDocumentStats(ctx)
		if err != nil {
			s.logger.Warn("could not load document stats for analytics", "err", err.Error())
			return nil
		}
		dashboard.DocumentStats = stats
		return nil
	})

	// Every fetch returns nil, so Wait only joins.
	_ = group.Wait()

	if dashboard.RecentSearches == nil {
		dashboard.RecentSearches = []backend.SearchHistoryEntry{}
	}
	if dashboard.PopularQueries == nil {
		dashboard.PopularQueries = []backend.PopularQuery{}
	}

	return dashboard
}

func (s *Service) Panel(ctx context.Context, days int) Panel {
	panel := Panel{
		Days:           days,
		PopularQueries: []backend.PopularQuery{},
	}

	var group errgroup.Group

	group.Go(func() error {
		average, err := s.search.GetAverageSearchTime(ctx, days)
		if err != nil {
			s.logger.Warn("could not load average search time for stats panel", "days", days, "err", err.Error())
			return nil
		}
		panel.AverageSearchTime = average
		return nil
	})

	group.Go(func() error {
		popular, err := s.search.GetPopularQueries(ctx, days)
		if err != nil {
			s.logger.Warn("could not load popular queries for stats panel", "days", days, "err", err.Error())
			return nil
		}
		if popular != nil {
			panel.PopularQueries = popular
		}
		return nil
	})

	group.Go(func() error {
		stats, err := s.documents.GetDocumentStats(ctx)
		if err != nil {
			s.logger.Warn("could not load document stats for stats panel", "err", err.Error())
			return nil
		}
		if stats != nil {
			panel.DocumentCount = stats.IndexedCount
		}
		return nil
	})

	_ = group.Wait()

	return panel
}

// ContentTypeCount is the number of distinct content types, 0 when stats are
// unavailable.
func (d Dashboard) ContentTypeCount() int {
	if d.DocumentStats == nil {
		return 0
	}
	return len(d.DocumentStats.StatsByContentType)
}

func (d Dashboard) IndexedCount() int64 {
	if d.DocumentStats == nil {
		return 0
	}
	return d.DocumentStats.IndexedCount
}

// TopPopular returns at most n popular queries.
func (d Dashboard) TopPopular(n int) []backend.PopularQuery {
	return head(d.PopularQueries, n)
}

// TopRecent returns at most n recent searches.
func (d Dashboard) TopRecent(n int) []backend.SearchHistoryEntry {
	return head(d.RecentSearches, n)
}

func (p Panel) TopPopular(n int) []backend.PopularQuery {
	return head(p.PopularQueries, n)
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
