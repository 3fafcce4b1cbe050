// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/config"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/services/analytics"
	"github.com/meghashyamc/searchdesk/services/search"
	"github.com/meghashyamc/searchdesk/ui"
	"github.com/meghashyamc/searchdesk/validation"
	"github.com/stretchr/testify/require"
)

var jsonRequestHeaders = map[string]string{"Accept": "application/json"}

var htmlRequestHeaders = map[string]string{"Accept": "text/html"}

type testCase struct {
	name           string
	requestHeaders map[string]string
	formBody       map[string]string
	queryParams    map[string]string
	setup          func(f *fakeBackend)
	expectedStatus int
	expectedBanner *Banner
	expectedReset  bool
	check          func(assert *require.Assertions, f *fakeBackend, body []byte)
}

var errBackendDown = &backend.TransportError{Op: "test", Err: io.ErrUnexpectedEOF}

// fakeBackend is an in-memory stand-in for both backend clients.
type fakeBackend struct {
	mu        sync.Mutex
	documents []backend.Document
	nextID    int64
	history   []backend.SearchHistoryEntry
	popular   []backend.PopularQuery
	average   *float64
	uploads   []fakeUpload
	paths     []string
	reindexed int

	// failures by method name
	errs map[string]error
}

type fakeUpload struct {
	name    string
	content string
	title   string
	url     string
}

func newFakeBackend() *fakeBackend {
	average := 8.0
	return &fakeBackend{
		nextID: 1,
		errs:   map[string]error{},
		popular: []backend.PopularQuery{
			{Query: "lucene", Count: 4},
		},
		average: &average,
	}
}

func (f *fakeBackend) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeBackend) err(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}

func (f *fakeBackend) add(title string, content string, documentURL string, indexed bool) backend.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	document := backend.Document{ID: f.nextID, Title: title, Content: content, URL: documentURL, ContentType: "text/plain", IsIndexed: indexed}
	f.nextID++
	f.documents = append(f.documents, document)
	return document
}

func (f *fakeBackend) Search(_ context.Context, query string, page int, size int) (*backend.SearchResponse, error) {
	if err := f.err("Search"); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []backend.SearchResult
	for _, document := range f.documents {
		if strings.Contains(strings.ToLower(document.Title+" "+document.Content), strings.ToLower(query)) {
			matches = append(matches, backend.SearchResult{ID: document.ID, Title: document.Title, URL: document.URL, Content: document.Content, Score: 1.5})
		}
	}
	f.history = append([]backend.SearchHistoryEntry{{Query: query, ResultsCount: len(matches)}}, f.history...)

	results := []backend.SearchResult{}
	for i := page * size; i < min(len(matches), (page+1)*size); i++ {
		results = append(results, matches[i])
	}

	return &backend.SearchResponse{Query: query, Results: results, TotalResults: len(matches), Page: page, PageSize: size, SearchTimeMs: 3}, nil
}

func (f *fakeBackend) GetSearchHistory(context.Context) ([]backend.SearchHistoryEntry, error) {
	if err := f.err("GetSearchHistory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.SearchHistoryEntry{}, f.history...), nil
}

func (f *fakeBackend) GetPopularQueries(context.Context, int) ([]backend.PopularQuery, error) {
	if err := f.err("GetPopularQueries"); err != nil {
		return nil, err
	}
	return f.popular, nil
}

func (f *fakeBackend) GetAverageSearchTime(context.Context, int) (*float64, error) {
	if err := f.err("GetAverageSearchTime"); err != nil {
		return nil, err
	}
	return f.average, nil
}

func (f *fakeBackend) IndexDocument(_ context.Context, title string, content string, documentURL string) (*backend.Document, error) {
	if err := f.err("IndexDocument"); err != nil {
		return nil, err
	}
	if documentURL == "" {
		documentURL = backend.ManualURL(time.Now())
	}
	document := f.add(title, content, documentURL, true)
	return &document, nil
}

func (f *fakeBackend) UploadFile(_ context.Context, upload backend.FileUpload) (*backend.Document, error) {
	if err := f.err("UploadFile"); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, fakeUpload{name: upload.Name, content: string(content), title: upload.Title, url: upload.URL})
	f.mu.Unlock()

	title := upload.Title
	if title == "" {
		title = upload.Name
	}
	document := f.add(title, string(content), upload.URL, true)
	return &document, nil
}

func (f *fakeBackend) IndexFilePath(_ context.Context, path string, title string, documentURL string) (*backend.Document, error) {
	if err := f.err("IndexFilePath"); err != nil {
		return nil, err
	}
	f.recordPath(path)
	document := f.add(title, "", documentURL, true)
	document.FilePath = path
	return &document, nil
}

func (f *fakeBackend) IndexDirectory(_ context.Context, path string, recursive bool) (*backend.Ack, error) {
	if err := f.err("IndexDirectory"); err != nil {
		return nil, err
	}
	f.recordPath(path)
	return &backend.Ack{Message: "Directory indexing started", Status: "processing", Path: path, Recursive: recursive}, nil
}

func (f *fakeBackend) recordPath(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeBackend) GetAllDocuments(context.Context) ([]backend.Document, error) {
	if err := f.err("GetAllDocuments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Document{}, f.documents...), nil
}

func (f *fakeBackend) GetUnindexedDocuments(context.Context) ([]backend.Document, error) {
	if err := f.err("GetUnindexedDocuments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	unindexed := []backend.Document{}
	for _, document := range f.documents {
		if !document.IsIndexed {
			unindexed = append(unindexed, document)
		}
	}
	return unindexed, nil
}

func (f *fakeBackend) GetDocumentStats(context.Context) (*backend.DocumentStats, error) {
	if err := f.err("GetDocumentStats"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &backend.DocumentStats{StatsByContentType: []backend.ContentTypeCount{}}
	for _, document := range f.documents {
		if document.IsIndexed {
			stats.IndexedCount++
		}
	}
	if len(f.documents) > 0 {
		stats.StatsByContentType = append(stats.StatsByContentType, backend.ContentTypeCount{ContentType: "text/plain", Count: int64(len(f.documents))})
	}
	return stats, nil
}

func (f *fakeBackend) UpdateDocument(_ context.Context, id int64, title string, content string, documentURL string) (*backend.Document, error) {
	if err := f.err("UpdateDocument"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.documents {
		if f.documents[i].ID == id {
			f.documents[i].Title = title
			f.documents[i].Content = content
			f.documents[i].URL = documentURL
			document := f.documents[i]
			return &document, nil
		}
	}
	return nil, &backend.StatusError{Op: "update document", StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) DeleteDocument(_ context.Context, id int64) (*backend.Ack, error) {
	if err := f.err("DeleteDocument"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.documents {
		if f.documents[i].ID == id {
			f.documents = append(f.documents[:i], f.documents[i+1:]...)
			return &backend.Ack{Message: "Document deleted successfully", ID: id}, nil
		}
	}
	return nil, &backend.StatusError{Op: "delete document", StatusCode: http.StatusNotFound, Message: "Document not found"}
}

func (f *fakeBackend) ReindexAllDocuments(context.Context) (*backend.Ack, error) {
	if err := f.err("ReindexAllDocuments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reindexed++
	return &backend.Ack{Message: "Reindexing started", Status: "processing"}, nil
}

func newTestLogger() logger.Logger {
	return logger.NewWithWriter(os.Stderr, slog.LevelDebug)
}

func setupTestServer(t *testing.T, assert *require.Assertions, fake *fakeBackend) *gin.Engine {

	t.Setenv("ENV", "test")

	cfg, err := config.Load("")
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	templates, err := ui.Templates()
	assert.NoError(err, "could not parse templates")

	settings := Settings{
		BannerDismiss:  cfg.GetBannerDismiss(),
		RecentSearches: cfg.GetRecentSearches(),
		PanelDays:      cfg.GetPanelDays(),
		AnalyticsDays:  cfg.GetAnalyticsDays(),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(templates)

	searchService := search.New(testLogger, fake, cfg.GetPageSize())
	analyticsService := analytics.New(testLogger, fake, fake)

	SetupSearch(router, testLogger, searchService, analyticsService, validator, settings)
	admin := router.Group("/admin")
	SetupUpload(admin, testLogger, fake, validator, settings)
	SetupDocuments(admin, testLogger, fake, validator, settings)
	SetupAnalytics(admin, analyticsService, settings)

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, formBody map[string]string, queryParams map[string]string) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		params := url.Values{}
		for key, value := range queryParams {
			params.Set(key, value)
		}
		endpoint = endpoint + "?" + params.Encode()
	}

	var body io.Reader
	if formBody != nil {
		form := url.Values{}
		for key, value := range formBody {
			form.Set(key, value)
		}
		body = strings.NewReader(form.Encode())
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", formBody)

	req, err := http.NewRequest(method, endpoint, body)
	assert.NoError(err)
	if formBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func makeTestUploadRequest(router *gin.Engine, assert *require.Assertions, headers map[string]string, fields map[string]string, fileName string, fileContent string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		assert.NoError(err)
		_, err = part.Write([]byte(fileContent))
		assert.NoError(err)
	}
	assert.NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/admin/upload/file", body)
	assert.NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

// assertFormResult checks the JSON answer to a form submission.
func assertFormResult(assert *require.Assertions, w *httptest.ResponseRecorder, expectedBanner *Banner, expectedReset bool) formResult {
	var result formResult
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	assert.Equal(expectedReset, result.Reset)
	if expectedBanner == nil {
		assert.Nil(result.Banner)
		return result
	}
	assert.NotNil(result.Banner)
	assert.Equal(expectedBanner.Variant, result.Banner.Variant)
	assert.Contains(result.Banner.Message, expectedBanner.Message)
	assert.Equal(int64(5000), result.Banner.DismissMillis)
	return result
}

func runFormTestCases(t *testing.T, method string, endpoint string, testCases []testCase) {
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			fake := newFakeBackend()
			if testCase.setup != nil {
				testCase.setup(fake)
			}
			router := setupTestServer(t, assert, fake)

			headers := testCase.requestHeaders
			if headers == nil {
				headers = jsonRequestHeaders
			}
			w := makeTestHTTPRequest(router, assert, method, endpoint, headers, testCase.formBody, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, w.Body.String())

			if headers["Accept"] == "application/json" && testCase.expectedBanner != nil {
				assertFormResult(assert, w, testCase.expectedBanner, testCase.expectedReset)
			}
			if testCase.check != nil {
				testCase.check(assert, fake, w.Body.Bytes())
			}
		})
	}
}
