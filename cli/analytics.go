package cli

import (
	"context"
	"fmt"

	"github.com/meghashyamc/searchdesk/services/analytics"
	"github.com/meghashyamc/searchdesk/views"
)

// Execute implements the go-flags Commander interface for AnalyticsCommand.
// Like the analytics tab, a failed source is shown as unavailable rather than
// failing the command.
func (c *AnalyticsCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	days := c.Days
	if days <= 0 {
		days = s.cfg.GetAnalyticsDays()
	}

	dashboard := analytics.New(s.logger, s.search, s.documents).Dashboard(context.Background(), days)

	if c.globals.JSON {
		return printJSON(dashboard)
	}
	return printDashboard(dashboard, s.cfg.GetRecentSearches())
}

func printDashboard(dashboard analytics.Dashboard, recent int) error {
	indexed := views.NotAvailable
	if dashboard.DocumentStats != nil {
		indexed = fmt.Sprintf("%d", dashboard.IndexedCount())
	}

	fmt.Fprintf(stdout, "Analytics for the last %s\n\n", plural(dashboard.Days, "day"))
	fmt.Fprintf(stdout, "Indexed documents:   %s\n", indexed)
	fmt.Fprintf(stdout, "Content types:       %d\n", dashboard.ContentTypeCount())
	fmt.Fprintf(stdout, "Average search time: %s\n", views.AverageTime(dashboard.AverageSearchTime))
	fmt.Fprintf(stdout, "Searches recorded:   %d\n", len(dashboard.RecentSearches))

	if popular := dashboard.TopPopular(10); len(popular) > 0 {
		fmt.Fprintln(stdout, "\nPopular queries")
		table := newTable()
		fmt.Fprintln(table, "QUERY\tCOUNT")
		for _, query := range popular {
			fmt.Fprintf(table, "%s\t%d\n", query.Query, query.Count)
		}
		if err := table.Flush(); err != nil {
			return err
		}
	}

	if searches := dashboard.TopRecent(recent); len(searches) > 0 {
		fmt.Fprintln(stdout, "\nRecent searches")
		table := newTable()
		fmt.Fprintln(table, "QUERY\tRESULTS\tTIME\tWHEN")
		for _, entry := range searches {
			fmt.Fprintf(table, "%s\t%d\t%dms\t%s\n", entry.Query, entry.ResultsCount, entry.SearchTimeMs, views.RelativeTime(entry.CreatedAt))
		}
		if err := table.Flush(); err != nil {
			return err
		}
	}

	if dashboard.DocumentStats != nil {
		printContentTypes(dashboard.DocumentStats.StatsByContentType)
	}

	return nil
}
