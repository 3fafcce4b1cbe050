package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/validation"
)

var errDocumentNotFound = errors.New("document not found")

// DocumentManager is the part of backend.DocumentClient behind the manage tab.
type DocumentManager interface {
	GetAllDocuments(ctx context.Context) ([]backend.Document, error)
	GetUnindexedDocuments(ctx context.Context) ([]backend.Document, error)
	GetDocumentStats(ctx context.Context) (*backend.DocumentStats, error)
	UpdateDocument(ctx context.Context, id int64, title string, content string, documentURL string) (*backend.Document, error)
	DeleteDocument(ctx context.Context, id int64) (*backend.Ack, error)
	ReindexAllDocuments(ctx context.Context) (*backend.Ack, error)
}

type DocumentsRequest struct {
	Unindexed bool `form:"unindexed"`
}

type UpdateRequest struct {
	Title   string `form:"title" validate:"not_blank,max=500"`
	Content string `form:"content" validate:"not_blank"`
	URL     string `form:"url" validate:"max=2048"`
}

type documentsPage struct {
	layout
	Documents     []backend.Document     `json:"documents"`
	Stats         *backend.DocumentStats `json:"stats"`
	UnindexedOnly bool                   `json:"unindexedOnly"`
}

type documentPage struct {
	layout
	Document *backend.Document `json:"document"`
}

func SetupDocuments(router gin.IRouter, logger logger.Logger, documents DocumentManager, validator *validation.Validator, settings Settings) {
	router.GET("/documents", handleListDocuments(documents, logger, settings))
	router.POST("/documents/reindex", handleReindex(documents, logger, settings))
	router.GET("/documents/:id", handleGetDocument(documents, logger))
	router.POST("/documents/:id", handleUpdateDocument(documents, logger, validator, settings))
	router.POST("/documents/:id/delete", handleDeleteDocument(documents, logger, settings))
}

func handleListDocuments(documents DocumentManager, logger logger.Logger, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := DocumentsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from documents request", "err", err.Error())
			writeError(c, http.StatusUnprocessableEntity, "admin", "failed to extract request parameters", "/admin/documents")
			return
		}

		page, err := loadDocumentsPage(c.Request.Context(), documents, logger, request.Unindexed)
		if err != nil {
			page.Banner = settings.failure("Error loading documents", err)
			writePage(c, statusForBackendError(err), "documents.html", page)
			return
		}

		writePage(c, http.StatusOK, "documents.html", page)
	}
}

// loadDocumentsPage fetches the listing and the stats. Stats are optional;
// a failed listing is returned as the error with an empty page.
func loadDocumentsPage(ctx context.Context, documents DocumentManager, logger logger.Logger, unindexedOnly bool) (documentsPage, error) {
	page := documentsPage{
		layout:        layout{Title: "Manage Documents", Section: "admin", Tab: "documents"},
		Documents:     []backend.Document{},
		UnindexedOnly: unindexedOnly,
	}

	stats, err := documents.GetDocumentStats(ctx)
	if err != nil {
		logger.Warn("could not load document stats", "err", err.Error())
	} else {
		page.Stats = stats
	}

	list := documents.GetAllDocuments
	if unindexedOnly {
		list = documents.GetUnindexedDocuments
	}

	listed, err := list(ctx)
	if err != nil {
		logger.Error("could not load documents", "unindexed_only", unindexedOnly, "err", err.Error())
		return page, err
	}
	page.Documents = listed

	return page, nil
}

// findDocument looks id up in the full listing. The backend has no single
// document read.
func findDocument(ctx context.Context, documents DocumentManager, id int64) (*backend.Document, error) {
	all, err := documents.GetAllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}

	return nil, errDocumentNotFound
}

func parseDocumentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func handleGetDocument(documents DocumentManager, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			logger.Warn("invalid document id", "id", c.Param("id"))
			writeError(c, http.StatusNotFound, "admin", errDocumentNotFound.Error(), "/admin/documents")
			return
		}

		document, err := findDocument(c.Request.Context(), documents, id)
		if errors.Is(err, errDocumentNotFound) {
			logger.Warn("document not found", "id", id)
			writeError(c, http.StatusNotFound, "admin", err.Error(), "/admin/documents")
			return
		}
		if err != nil {
			logger.Error("could not load document", "id", id, "err", err.Error())
			writeError(c, statusForBackendError(err), "admin", "Error loading document: "+backend.UserMessage(err), "/admin/documents")
			return
		}

		writePage(c, http.StatusOK, "document.html", documentPage{
			layout:   layout{Title: document.Title, Section: "admin", Tab: "documents"},
			Document: document,
		})
	}
}

func handleUpdateDocument(documents DocumentManager, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			logger.Warn("invalid document id", "id", c.Param("id"))
			banner := settings.danger(errDocumentNotFound.Error())
			writeResponse(c, http.StatusNotFound, "error.html", errorPage{
				layout:  layout{Title: "Not Found", Section: "admin", Banner: banner},
				Status:  http.StatusNotFound,
				Message: errDocumentNotFound.Error(),
				Back:    "/admin/documents",
			}, formResult{Banner: banner})
			return
		}

		request := UpdateRequest{}
		submitted := func() *backend.Document {
			return &backend.Document{ID: id, Title: request.Title, Content: request.Content, URL: request.URL}
		}
		failed := func(statusCode int, banner *Banner) {
			writeResponse(c, statusCode, "document.html", documentPage{
				layout:   layout{Title: request.Title, Section: "admin", Tab: "documents", Banner: banner},
				Document: submitted(),
			}, formResult{Banner: banner, Reset: false})
		}

		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from document update", "err", err.Error())
			failed(http.StatusUnprocessableEntity, settings.danger("failed to extract request body parameters"))
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate document update", "id", id, "err", err.Error())
			failed(http.StatusNotAcceptable, settings.danger(err.Error()))
			return
		}

		document, err := documents.UpdateDocument(c.Request.Context(), id, request.Title, request.Content, request.URL)
		if err != nil {
			logger.Error("could not update document", "id", id, "err", err.Error())
			failed(statusForBackendError(err), settings.failure("Error updating document", err))
			return
		}

		banner := settings.success("Document updated successfully!")
		logger.Info("updated document", "id", id)
		writeResponse(c, http.StatusOK, "document.html", documentPage{
			layout:   layout{Title: document.Title, Section: "admin", Tab: "documents", Banner: banner},
			Document: document,
		}, formResult{Banner: banner, Reset: true})
	}
}

func handleDeleteDocument(documents DocumentManager, logger logger.Logger, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			logger.Warn("invalid document id", "id", c.Param("id"))
			respondWithDocuments(c, documents, logger, http.StatusNotFound, settings.danger("Error deleting document: "+errDocumentNotFound.Error()), false)
			return
		}

		if _, err := documents.DeleteDocument(c.Request.Context(), id); err != nil {
			logger.Error("could not delete document", "id", id, "err", err.Error())
			respondWithDocuments(c, documents, logger, statusForBackendError(err), settings.failure("Error deleting document", err), false)
			return
		}

		logger.Info("deleted document", "id", id)
		respondWithDocuments(c, documents, logger, http.StatusOK, settings.success("Document deleted successfully!"), true)
	}
}

func handleReindex(documents DocumentManager, logger logger.Logger, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := documents.ReindexAllDocuments(c.Request.Context()); err != nil {
			logger.Error("could not start reindexing", "err", err.Error())
			respondWithDocuments(c, documents, logger, statusForBackendError(err), settings.failure("Error starting reindex", err), false)
			return
		}

		logger.Info("started reindexing all documents")
		respondWithDocuments(c, documents, logger, http.StatusOK, settings.success("Reindexing started successfully! This will run in the background."), true)
	}
}

// respondWithDocuments answers a manage tab action. HTML callers get the
// refreshed listing under the banner.
func respondWithDocuments(c *gin.Context, documents DocumentManager, logger logger.Logger, statusCode int, banner *Banner, reset bool) {
	result := formResult{Banner: banner, Reset: reset}
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(statusCode, result)
		return
	}

	// A failed refresh is already logged and leaves the listing empty.
	page, _ := loadDocumentsPage(c.Request.Context(), documents, logger, false)
	page.Banner = banner
	writeResponse(c, statusCode, "documents.html", page, result)
}
