// Package views holds the formatting helpers the console templates call.
package views

import (
	"fmt"
	"html/template"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/meghashyamc/searchdesk/backend"
)

const (
	NotAvailable = "N/A"

	ResultContentLength = 200
	ListContentLength   = 100
	ListURLLength       = 40

	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "January 2, 2006 at 3:04 PM"
)

// Funcs is the FuncMap installed on every console template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fileSize":      FileSize,
		"relativeTime":  RelativeTime,
		"date":          Date,
		"dateTime":      DateTime,
		"truncate":      Truncate,
		"highlight":     Highlight,
		"score":         Score,
		"averageTime":   AverageTime,
		"contentType":   ContentType,
		"resultContent": ResultContent,
		"add":           func(a, b int) int { return a + b },
	}
}

// FileSize renders a byte count with binary units. Missing and zero sizes
// are N/A.
func FileSize(size *int64) string {
	if size == nil || *size <= 0 {
		return NotAvailable
	}
	return humanize.IBytes(uint64(*size))
}

func RelativeTime(ts backend.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.Time(ts.Time)
}

func Date(ts backend.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(dateLayout)
}

// DateTime renders a timestamp with its time of day, "Never" when it is unset.
func DateTime(ts backend.Timestamp) string {
	if ts.IsZero() {
		return "Never"
	}
	return ts.Format(dateTimeLayout)
}

// Truncate cuts s to at most n runes, appending "..." when anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Highlight escapes text and wraps every case-insensitive occurrence of
// query in a highlight span.
func Highlight(text string, query string) template.HTML {
	query = strings.TrimSpace(query)
	if text == "" || query == "" {
		return template.HTML(template.HTMLEscapeString(text))
	}

	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}

	var out strings.Builder
	last := 0
	for _, match := range pattern.FindAllStringIndex(text, -1) {
		out.WriteString(template.HTMLEscapeString(text[last:match[0]]))
		out.WriteString(`<span class="highlighted">`)
		out.WriteString(template.HTMLEscapeString(text[match[0]:match[1]]))
		out.WriteString(`</span>`)
		last = match[1]
	}
	out.WriteString(template.HTMLEscapeString(text[last:]))

	return template.HTML(out.String())
}

// ResultContent picks what a result card shows: the backend's highlighted
// fragment when present, otherwise the truncated content.
func ResultContent(result backend.SearchResult, query string) template.HTML {
	if result.HighlightedContent != "" {
		return Fragment(result.HighlightedContent, query)
	}
	if result.Content == "" {
		return template.HTML("No content available")
	}
	return Highlight(Truncate(result.Content, ResultContentLength), query)
}

// fragmentHit matches the <B>...</B> pairs the backend's highlighter wraps
// around each hit.
var fragmentHit = regexp.MustCompile(`(?is)<b>(.*?)</b>`)

// Fragment renders a highlighted fragment from the backend. Each <B> pair
// becomes a highlight span, and all other markup is escaped. Text outside the
// pairs still gets the query highlight.
func Fragment(fragment string, query string) template.HTML {
	var out strings.Builder
	last := 0
	for _, match := range fragmentHit.FindAllStringSubmatchIndex(fragment, -1) {
		out.WriteString(string(Highlight(fragment[last:match[0]], query)))
		out.WriteString(`<span class="highlighted">`)
		out.WriteString(template.HTMLEscapeString(fragment[match[2]:match[3]]))
		out.WriteString(`</span>`)
		last = match[1]
	}
	out.WriteString(string(Highlight(fragment[last:], query)))

	return template.HTML(out.String())
}

func Score(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// AverageTime renders the average search latency in whole milliseconds.
func AverageTime(average *float64) string {
	if average == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%dms", int64(math.Round(*average)))
}

// ContentType names documents whose backend content type is missing.
func ContentType(contentType string) string {
	if contentType == "" {
		return "Unknown"
	}
	return contentType
}
