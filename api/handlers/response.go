package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
)

const (
	bannerSuccess = "success"
	bannerDanger  = "danger"

	tooManyRequestsMessage = "Too many requests, please wait a moment and try again"
)

// Settings are the display knobs the handlers read from config.
type Settings struct {
	BannerDismiss  time.Duration
	RecentSearches int
	PanelDays      int
	AnalyticsDays  int
}

type Banner struct {
	Variant       string `json:"variant"`
	Message       string `json:"message"`
	DismissMillis int64  `json:"dismissMs"`
}

// formResult is what the page script gets back for a submitted form. Reset
// is false when the form should keep what the user entered.
type formResult struct {
	Banner *Banner `json:"banner"`
	Reset  bool    `json:"reset"`
}

// layout carries what every page template needs.
type layout struct {
	Title   string  `json:"-"`
	Section string  `json:"-"`
	Tab     string  `json:"-"`
	Banner  *Banner `json:"banner,omitempty"`
}

type errorPage struct {
	layout
	Status  int    `json:"status"`
	Message string `json:"message"`
	Back    string `json:"-"`
}

func (s Settings) success(message string) *Banner {
	return &Banner{Variant: bannerSuccess, Message: message, DismissMillis: s.BannerDismiss.Milliseconds()}
}

func (s Settings) danger(message string) *Banner {
	return &Banner{Variant: bannerDanger, Message: message, DismissMillis: s.BannerDismiss.Milliseconds()}
}

// failure builds the banner for a failed backend call: the action prefix
// followed by the backend's message or the error text.
func (s Settings) failure(prefix string, err error) *Banner {
	return s.danger(prefix + ": " + backend.UserMessage(err))
}

// writeResponse answers a form submission. JSON callers get the banner and
// reset flag, HTML callers get the re-rendered page.
func writeResponse(c *gin.Context, statusCode int, htmlName string, page any, result formResult) {
	c.Negotiate(statusCode, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: htmlName,
		HTMLData: page,
		JSONData: result,
	})
}

// writePage answers a page load. JSON callers get the page model itself.
func writePage(c *gin.Context, statusCode int, htmlName string, page any) {
	c.Negotiate(statusCode, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: htmlName,
		HTMLData: page,
		JSONData: page,
	})
}

func writeError(c *gin.Context, statusCode int, section string, message string, back string) {
	writePage(c, statusCode, "error.html", errorPage{
		layout:  layout{Title: http.StatusText(statusCode), Section: section},
		Status:  statusCode,
		Message: message,
		Back:    back,
	})
}

// AbortTooManyRequests stops a rate limited submission. The page script gets
// a form result that keeps the form, plain form posts get the error page.
func (s Settings) AbortTooManyRequests(c *gin.Context) {
	banner := s.danger(tooManyRequestsMessage)
	c.Abort()
	c.Negotiate(http.StatusTooManyRequests, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: "error.html",
		HTMLData: errorPage{
			layout:  layout{Title: http.StatusText(http.StatusTooManyRequests), Section: "admin"},
			Status:  http.StatusTooManyRequests,
			Message: tooManyRequestsMessage,
			Back:    "/admin",
		},
		JSONData: formResult{Banner: banner, Reset: false},
	})
}

// statusForBackendError maps a client error onto the console's response
// status.
func statusForBackendError(err error) int {
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.IsNotFound():
		return http.StatusNotFound
	case errors.Is(err, backend.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
