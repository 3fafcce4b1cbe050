// Common test helpers
package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string][]string
	body   string
}

// fakeBackend serves canned JSON per "METHOD path" and records what it saw.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]fakeRoute
	requests []recordedRequest
	server   *httptest.Server
}

type fakeRoute struct {
	status int
	body   string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Setenv("ENV", "test")

	fake := &fakeBackend{routes: map[string]fakeRoute{}}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serveHTTP))
	t.Cleanup(fake.server.Close)

	return fake
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
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.Query(),
		body:   string(body),
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

func (f *fakeBackend) requestsTo(method string, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []recordedRequest
	for _, request := range f.requests {
		if request.method == method && request.path == path {
			matched = append(matched, request)
		}
	}
	return matched
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// run executes searchctl against the fake with --backend set, feeding input
// to any confirmation prompt, and returns what it printed.
func (f *fakeBackend) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"--backend", f.server.URL}, args...)
	return captureOutput(t, input, func() error {
		return RunWithArgs("test", full)
	})
}

// captureOutput swaps the package stdout and stdin for the duration of fn.
func captureOutput(t *testing.T, input string, fn func() error) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	oldOut, oldIn := stdout, stdin
	stdout, stdin = &buf, strings.NewReader(input)
	t.Cleanup(func() {
		stdout, stdin = oldOut, oldIn
	})

	err := fn()

	stdout, stdin = oldOut, oldIn
	return buf.String(), err
}

func requireSingleRequest(t *testing.T, fake *fakeBackend, method string, path string) recordedRequest {
	t.Helper()

	requests := fake.requestsTo(method, path)
	require.Len(t, requests, 1, "expected exactly one %s %s", method, path)
	return requests[0]
}
