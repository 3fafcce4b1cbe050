package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/stretchr/testify/require"
)

type documentsPageResponse struct {
	Banner        *Banner                `json:"banner"`
	Documents     []backend.Document     `json:"documents"`
	Stats         *backend.DocumentStats `json:"stats"`
	UnindexedOnly bool                   `json:"unindexedOnly"`
}

func listDocuments(assert *require.Assertions, router *gin.Engine, queryParams map[string]string) documentsPageResponse {
	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/admin/documents", jsonRequestHeaders, nil, queryParams)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())

	var page documentsPageResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestListDocuments(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	fake.add("Indexed", "a", "https://example.com/a", true)
	fake.add("Pending", "b", "https://example.com/b", false)
	router := setupTestServer(t, assert, fake)

	all := listDocuments(assert, router, nil)
	assert.Len(all.Documents, 2)
	assert.False(all.UnindexedOnly)
	assert.Equal(int64(1), all.Stats.IndexedCount)

	unindexed := listDocuments(assert, router, map[string]string{"unindexed": "true"})
	assert.True(unindexed.UnindexedOnly)
	assert.Len(unindexed.Documents, 1)
	assert.Equal("Pending", unindexed.Documents[0].Title)
}

func TestListDocumentsWithoutStats(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	fake.add("Indexed", "a", "https://example.com/a", true)
	fake.fail("GetDocumentStats", errBackendDown)
	router := setupTestServer(t, assert, fake)

	page := listDocuments(assert, router, nil)
	assert.Len(page.Documents, 1)
	assert.Nil(page.Stats)
}

func TestListDocumentsBackendDown(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	fake.fail("GetAllDocuments", &backend.StatusError{Op: "get all documents", StatusCode: http.StatusInternalServerError, Message: "database unavailable"})
	router := setupTestServer(t, assert, fake)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/admin/documents", htmlRequestHeaders, nil, nil)
	assert.Equal(http.StatusBadGateway, w.Code)
	assert.Contains(w.Body.String(), "Error loading documents: database unavailable")
	assert.Contains(w.Body.String(), "No documents found")
}

func TestDeletedDocumentIsGoneFromListing(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	keep := fake.add("Keep", "a", "https://example.com/a", true)
	drop := fake.add("Drop", "b", "https://example.com/b", true)
	router := setupTestServer(t, assert, fake)

	w := makeTestHTTPRequest(router, assert, http.MethodPost, fmt.Sprintf("/admin/documents/%d/delete", drop.ID), jsonRequestHeaders, map[string]string{}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assertFormResult(assert, w, &Banner{Variant: bannerSuccess, Message: "Document deleted successfully!"}, true)

	page := listDocuments(assert, router, nil)
	assert.Len(page.Documents, 1)
	assert.Equal(keep.ID, page.Documents[0].ID)
}

var deleteHandlerTestCases = []testCase{
	{
		name:           "UnknownDocument",
		formBody:       map[string]string{},
		expectedStatus: http.StatusNotFound,
		expectedBanner: &Banner{Variant: bannerDanger, Message: "Error deleting document: Document not found"},
		expectedReset:  false,
	},
	{
		name:           "BackendDown",
		formBody:       map[string]string{},
		setup:          func(f *fakeBackend) { f.fail("DeleteDocument", errBackendDown) },
		expectedStatus: http.StatusBadGateway,
		expectedBanner: &Banner{Variant: bannerDanger, Message: "Error deleting document: " + backend.ErrTransport.Error()},
		expectedReset:  false,
	},
}

func TestDeleteHandler(t *testing.T) {
	runFormTestCases(t, http.MethodPost, "/admin/documents/99/delete", deleteHandlerTestCases)
}

func TestDeleteInvalidID(t *testing.T) {
	assert := require.New(t)
	router := setupTestServer(t, assert, newFakeBackend())

	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/admin/documents/abc/delete", jsonRequestHeaders, map[string]string{}, nil)
	assert.Equal(http.StatusNotFound, w.Code)
	assertFormResult(assert, w, &Banner{Variant: bannerDanger, Message: "document not found"}, false)
}

func TestDeleteHTMLRendersRefreshedListing(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	keep := fake.add("Kept report", "a", "https://example.com/a", true)
	drop := fake.add("Dropped report", "b", "https://example.com/b", true)
	router := setupTestServer(t, assert, fake)

	w := makeTestHTTPRequest(router, assert, http.MethodPost, fmt.Sprintf("/admin/documents/%d/delete", drop.ID), htmlRequestHeaders, map[string]string{}, nil)
	assert.Equal(http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(body, "Document deleted successfully!")
	assert.Contains(body, keep.Title)
	assert.NotContains(body, drop.Title)
}

var reindexHandlerTestCases = []testCase{
	{
		name:           "Started",
		formBody:       map[string]string{},
		expectedStatus: http.StatusOK,
		expectedBanner: &Banner{Variant: bannerSuccess, Message: "Reindexing started successfully!"},
		expectedReset:  true,
		check: func(assert *require.Assertions, f *fakeBackend, body []byte) {
			assert.Equal(1, f.reindexed)
		},
	},
	{
		name:     "BackendRejects",
		formBody: map[string]string{},
		setup: func(f *fakeBackend) {
			f.fail("ReindexAllDocuments", &backend.StatusError{Op: "reindex all documents", StatusCode: http.StatusConflict, Message: "Reindex already running"})
		},
		expectedStatus: http.StatusBadGateway,
		expectedBanner: &Banner{Variant: bannerDanger, Message: "Error starting reindex: Reindex already running"},
	},
}

func TestReindexHandler(t *testing.T) {
	runFormTestCases(t, http.MethodPost, "/admin/documents/reindex", reindexHandlerTestCases)
}

func TestDocumentDetail(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	size := int64(2048)
	document := fake.add("Design notes", "all the notes", "https://example.com/notes", true)
	fake.documents[0].FileSize = &size
	router := setupTestServer(t, assert, fake)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, fmt.Sprintf("/admin/documents/%d", document.ID), htmlRequestHeaders, nil, nil)
	assert.Equal(http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(body, "Design notes")
	assert.Contains(body, "2.0 KiB")
	assert.Contains(body, "Never")
	assert.Contains(body, fmt.Sprintf(`action="/admin/documents/%d"`, document.ID))
}

func TestDocumentDetailNotFound(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{name: "UnknownID", path: "/admin/documents/42"},
		{name: "InvalidID", path: "/admin/documents/nope"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			router := setupTestServer(t, assert, newFakeBackend())

			w := makeTestHTTPRequest(router, assert, http.MethodGet, testCase.path, htmlRequestHeaders, nil, nil)
			assert.Equal(http.StatusNotFound, w.Code)
			assert.Contains(w.Body.String(), "document not found")
		})
	}
}

func TestUpdateDocument(t *testing.T) {
	assert := require.New(t)
	fake := newFakeBackend()
	document := fake.add("Old title", "old content", "https://example.com/old", true)
	router := setupTestServer(t, assert, fake)

	w := makeTestHTTPRequest(router, assert, http.MethodPost, fmt.Sprintf("/admin/documents/%d", document.ID), jsonRequestHeaders,
		map[string]string{"title": "New title", "content": "new content", "url": "https://example.com/new"}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assertFormResult(assert, w, &Banner{Variant: bannerSuccess, Message: "Document updated successfully!"}, true)

	assert.Equal("New title", fake.documents[0].Title)
	assert.Equal("new content", fake.documents[0].Content)
	assert.Equal("https://example.com/new", fake.documents[0].URL)
}

var updateHandlerTestCases = []testCase{
	{
		name:           "BlankTitle",
		formBody:       map[string]string{"title": " ", "content": "c"},
		expectedStatus: http.StatusNotAcceptable,
		expectedBanner: &Banner{Variant: bannerDanger, Message: "missing required field 'title'"},
		expectedReset:  false,
	},
	{
		name:           "UnknownDocument",
		formBody:       map[string]string{"title": "t", "content": "c"},
		expectedStatus: http.StatusNotFound,
		expectedBanner: &Banner{Variant: bannerDanger, Message: "Error updating document: request failed with status 404 (Not Found)"},
		expectedReset:  false,
	},
}

func TestUpdateHandler(t *testing.T) {
	runFormTestCases(t, http.MethodPost, "/admin/documents/7", updateHandlerTestCases)
}
