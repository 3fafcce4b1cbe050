// Package backend holds the HTTP clients for the remote document search API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meghashyamc/searchdesk/logger"
)

const maxErrorBodyBytes = 64 * 1024

// transport is shared by SearchClient and DocumentClient.
type transport struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

type Option func(*transport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(t *transport) {
		if httpClient != nil {
			t.httpClient = httpClient
		}
	}
}

// WithTimeout sets an overall timeout on the default http.Client. Zero leaves
// deadlines to the request context.
func WithTimeout(timeout time.Duration) Option {
	return func(t *transport) {
		t.httpClient.Timeout = timeout
	}
}

func newTransport(baseURL string, logger logger.Logger, opts ...Option) *transport {
	t := &transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *transport) endpoint(path string, params url.Values) string {
	reqURL := t.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return reqURL
}

func (t *transport) get(ctx context.Context, op string, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint(path, params), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}

	return t.do(op, req, out)
}

func (t *transport) delete(ctx context.Context, op string, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.endpoint(path, nil), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}

	return t.do(op, req, out)
}

func (t *transport) sendForm(ctx context.Context, op string, method string, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, t.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return t.do(op, req, out)
}

func (t *transport) sendBody(ctx context.Context, op string, path string, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(path, nil), body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return t.do(op, req, out)
}

// do executes req and decodes a 2xx JSON body into out. A nil out discards
// the body.
func (t *transport) do(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error("search backend request failed", "op", op, "method", req.Method, "url", req.URL.String(), "err", err.Error())
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	t.logger.Debug("search backend request", "op", op, "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
		t.logger.Warn("search backend returned error status", "op", op, "status", resp.StatusCode, "message", statusErr.Message)
		return statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		t.logger.Error("could not decode search backend response", "op", op, "err", err.Error())
		return &DecodeError{Op: op, Err: err}
	}

	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	return strings.TrimSpace(payload.Message)
}
