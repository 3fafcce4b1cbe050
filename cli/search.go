package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/views"
)

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	query := c.Query
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search requires a query (-q or trailing arguments)")
	}
	if c.Page < 1 {
		return fmt.Errorf("invalid --page value %d: pages start at 1", c.Page)
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	size := c.Size
	if size <= 0 {
		size = s.cfg.GetPageSize()
	}

	response, err := s.search.Search(context.Background(), query, c.Page-1, size)
	if err != nil {
		return failed("search failed", err)
	}

	if c.globals.JSON {
		return printJSON(response)
	}
	return c.printHuman(query, response)
}

func (c *SearchCommand) printHuman(query string, response *backend.SearchResponse) error {
	if len(response.Results) == 0 {
		fmt.Fprintf(stdout, "No results found for %q\n", query)
		for _, suggestion := range response.Suggestions {
			fmt.Fprintf(stdout, "  did you mean %q?\n", suggestion)
		}
		return nil
	}

	fmt.Fprintf(stdout, "Found %s for %q in %dms (page %d of %d)\n\n",
		plural(response.TotalResults, "result"), query, response.SearchTimeMs, c.Page, response.TotalPages())

	offset := (c.Page - 1) * response.PageSize
	for i, result := range response.Results {
		fmt.Fprintf(stdout, "%d. %s  [%s]\n", offset+i+1, result.Title, views.Score(result.Score))
		fmt.Fprintf(stdout, "   %s\n", result.URL)
		if result.Content != "" {
			fmt.Fprintf(stdout, "   %s\n", views.Truncate(result.Content, views.ResultContentLength))
		}
		if i < len(response.Results)-1 {
			fmt.Fprintln(stdout)
		}
	}

	return nil
}

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	history, err := s.search.GetSearchHistory(context.Background())
	if err != nil {
		return failed("could not load search history", err)
	}
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}

	if c.globals.JSON {
		return printJSON(history)
	}

	if len(history) == 0 {
		fmt.Fprintln(stdout, "No searches yet.")
		return nil
	}

	table := newTable()
	fmt.Fprintln(table, "QUERY\tRESULTS\tTIME\tWHEN")
	for _, entry := range history {
		fmt.Fprintf(table, "%s\t%d\t%dms\t%s\n", entry.Query, entry.ResultsCount, entry.SearchTimeMs, views.RelativeTime(entry.CreatedAt))
	}
	return table.Flush()
}

// Execute implements the go-flags Commander interface for PopularCommand.
func (c *PopularCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	popular, err := s.search.GetPopularQueries(context.Background(), c.Days)
	if err != nil {
		return failed("could not load popular queries", err)
	}

	if c.globals.JSON {
		return printJSON(popular)
	}

	if len(popular) == 0 {
		fmt.Fprintf(stdout, "No searches in the last %s.\n", plural(c.Days, "day"))
		return nil
	}

	table := newTable()
	fmt.Fprintln(table, "QUERY\tCOUNT")
	for _, query := range popular {
		fmt.Fprintf(table, "%s\t%d\n", query.Query, query.Count)
	}
	return table.Flush()
}

type averageTimeOutput struct {
	Days              int      `json:"days"`
	AverageSearchTime *float64 `json:"averageSearchTime"`
}

// Execute implements the go-flags Commander interface for AverageTimeCommand.
func (c *AverageTimeCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	average, err := s.search.GetAverageSearchTime(context.Background(), c.Days)
	if err != nil {
		return failed("could not load average search time", err)
	}

	if c.globals.JSON {
		return printJSON(averageTimeOutput{Days: c.Days, AverageSearchTime: average})
	}

	fmt.Fprintln(stdout, views.AverageTime(average))
	return nil
}
