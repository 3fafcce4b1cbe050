// Common test helpers
package backend

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/meghashyamc/searchdesk/logger"
)

type recordedRequest struct {
	method      string
	path        string
	query       map[string][]string
	contentType string
	body        []byte
}

// fakeBackend serves canned responses per "METHOD path" and records what it saw.
type fakeBackend struct {
	t        *testing.T
	mu       sync.Mutex
	routes   map[string]fakeRoute
	requests []recordedRequest
}

type fakeRoute struct {
	status int
	body   string
}

func newTestLogger() logger.Logger {
	return logger.NewWithWriter(os.Stderr, slog.LevelDebug)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fake := &fakeBackend{t: t, routes: map[string]fakeRoute{}}
	server := httptest.NewServer(http.HandlerFunc(fake.serveHTTP))
	t.Cleanup(server.Close)

	return fake, server
}

func (f *fakeBackend) handle(method string, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeRoute{status: status, body: body}
}

func (f *fakeBackend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		method:      r.Method,
		path:        r.URL.Path,
		query:       r.URL.Query(),
		contentType: r.Header.Get("Content-Type"),
		body:        body,
	})
	route, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

func (f *fakeBackend) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		f.t.Fatal("fake backend received no requests")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
