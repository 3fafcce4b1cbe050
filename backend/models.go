package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Document struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	ContentType string     `json:"contentType"`
	FileSize    *int64     `json:"fileSize,omitempty"`
	IsIndexed   bool       `json:"isIndexed"`
	CreatedAt   Timestamp  `json:"createdAt"`
	IndexedAt   *Timestamp `json:"indexedAt,omitempty"`
	FilePath    string     `json:"filePath,omitempty"`
}

type SearchResult struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	Content            string    `json:"content"`
	HighlightedContent string    `json:"highlightedContent,omitempty"`
	Score              float64   `json:"score"`
	CreatedAt          Timestamp `json:"createdAt"`
}

type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"totalResults"`
	Page         int            `json:"page"`
	PageSize     int            `json:"pageSize"`
	SearchTimeMs int64          `json:"searchTimeMs"`
	Suggestions  []string       `json:"suggestions,omitempty"`
}

// TotalPages is ceil(TotalResults / PageSize), or 0 when the page size is unusable.
func (r *SearchResponse) TotalPages() int {
	if r == nil || r.PageSize <= 0 || r.TotalResults <= 0 {
		return 0
	}
	return (r.TotalResults + r.PageSize - 1) / r.PageSize
}

type SearchHistoryEntry struct {
	Query        string    `json:"query"`
	ResultsCount int       `json:"resultsCount"`
	SearchTimeMs int64     `json:"searchTimeMs"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// PopularQuery is encoded by the backend as a [query, count] pair.
type PopularQuery struct {
	Query string
	Count int64
}

// ContentTypeCount is encoded by the backend as a [contentType, count] pair.
// A nil content type decodes to the empty string.
type ContentTypeCount struct {
	ContentType string
	Count       int64
}

type DocumentStats struct {
	IndexedCount       int64              `json:"indexedCount"`
	StatsByContentType []ContentTypeCount `json:"statsByContentType"`
}

// Ack is returned for requests the backend accepts without a document body:
// deletes and the asynchronous directory index and reindex jobs.
type Ack struct {
	Message   string `json:"message"`
	Status    string `json:"status,omitempty"`
	Path      string `json:"path,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	ID        int64  `json:"id,omitempty"`
}

func (p *PopularQuery) UnmarshalJSON(data []byte) error {
	var query *string
	if err := decodePair(data, &query, &p.Count); err != nil {
		return fmt.Errorf("popular query: %w", err)
	}
	if query != nil {
		p.Query = *query
	}
	return nil
}

func (p PopularQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Query, p.Count})
}

func (c *ContentTypeCount) UnmarshalJSON(data []byte) error {
	var contentType *string
	if err := decodePair(data, &contentType, &c.Count); err != nil {
		return fmt.Errorf("content type count: %w", err)
	}
	if contentType != nil {
		c.ContentType = *contentType
	}
	return nil
}

func (c ContentTypeCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.ContentType, c.Count})
}

func decodePair(data []byte, first any, second any) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("expected a two element array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected a two element array, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], first); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], second)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp accepts zoned RFC 3339 times as well as the zone-less local
// date-times the backend emits. Zone-less values are read as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("timestamp: unrecognised format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
