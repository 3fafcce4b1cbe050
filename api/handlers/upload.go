package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/validation"
)

const (
	uploadTabManual    = "manual"
	uploadTabFile      = "file"
	uploadTabPath      = "path"
	uploadTabDirectory = "directory"
)

// DocumentIndexer is the part of backend.DocumentClient behind the upload tabs.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, title string, content string, documentURL string) (*backend.Document, error)
	UploadFile(ctx context.Context, upload backend.FileUpload) (*backend.Document, error)
	IndexFilePath(ctx context.Context, path string, title string, documentURL string) (*backend.Document, error)
	IndexDirectory(ctx context.Context, path string, recursive bool) (*backend.Ack, error)
}

type ManualRequest struct {
	Title   string `form:"title" validate:"not_blank,max=500"`
	Content string `form:"content" validate:"not_blank"`
	URL     string `form:"url" validate:"max=2048"`
}

type FileRequest struct {
	Title string `form:"title" validate:"max=500"`
	URL   string `form:"url" validate:"max=2048"`
}

type PathRequest struct {
	Path  string `form:"path" validate:"valid_path"`
	Title string `form:"title" validate:"max=500"`
	URL   string `form:"url" validate:"max=2048"`
}

type DirectoryRequest struct {
	Path      string `form:"path" validate:"valid_path"`
	Recursive bool   `form:"recursive"`
}

// uploadForm refills the tab's inputs when an HTML submission fails.
type uploadForm struct {
	Title     string
	Content   string
	URL       string
	Path      string
	Recursive bool
}

type uploadPage struct {
	layout
	UploadTab string     `json:"tab"`
	Form      uploadForm `json:"-"`
}

func SetupUpload(router gin.IRouter, logger logger.Logger, documents DocumentIndexer, validator *validation.Validator, settings Settings) {
	router.GET("/upload", handleUploadPage())
	router.POST("/upload/manual", handleManualUpload(documents, logger, validator, settings))
	router.POST("/upload/file", handleFileUpload(documents, logger, validator, settings))
	router.POST("/upload/path", handlePathUpload(documents, logger, validator, settings))
	router.POST("/upload/directory", handleDirectoryUpload(documents, logger, validator, settings))
}

func newUploadPage(tab string) uploadPage {
	switch tab {
	case uploadTabManual, uploadTabFile, uploadTabPath, uploadTabDirectory:
	default:
		tab = uploadTabManual
	}

	return uploadPage{
		layout:    layout{Title: "Upload Documents", Section: "admin", Tab: "upload"},
		UploadTab: tab,
	}
}

func handleUploadPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		writePage(c, http.StatusOK, "upload.html", newUploadPage(c.Query("tab")))
	}
}

// uploadFailed keeps the submitted values so neither the page script nor
// the re-rendered tab loses them.
func uploadFailed(c *gin.Context, statusCode int, page uploadPage, banner *Banner) {
	page.Banner = banner
	writeResponse(c, statusCode, "upload.html", page, formResult{Banner: banner, Reset: false})
}

func uploadSucceeded(c *gin.Context, page uploadPage, banner *Banner) {
	page.Banner = banner
	page.Form = uploadForm{}
	writeResponse(c, http.StatusOK, "upload.html", page, formResult{Banner: banner, Reset: true})
}

func handleManualUpload(documents DocumentIndexer, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := newUploadPage(uploadTabManual)

		request := ManualRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from manual upload", "err", err.Error())
			uploadFailed(c, http.StatusUnprocessableEntity, page, settings.danger("failed to extract request body parameters"))
			return
		}
		page.Form = uploadForm{Title: request.Title, Content: request.Content, URL: request.URL}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate manual upload", "err", err.Error())
			uploadFailed(c, http.StatusNotAcceptable, page, settings.danger(err.Error()))
			return
		}

		document, err := documents.IndexDocument(c.Request.Context(), request.Title, request.Content, request.URL)
		if err != nil {
			logger.Error("could not index document", "title", request.Title, "err", err.Error())
			uploadFailed(c, statusForBackendError(err), page, settings.failure("Error indexing document", err))
			return
		}

		logger.Info("indexed manual document", "id", document.ID, "url", document.URL)
		uploadSucceeded(c, page, settings.success("Document indexed successfully!"))
	}
}

func handleFileUpload(documents DocumentIndexer, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := newUploadPage(uploadTabFile)

		request := FileRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from file upload", "err", err.Error())
			uploadFailed(c, http.StatusUnprocessableEntity, page, settings.danger("failed to extract request body parameters"))
			return
		}
		page.Form = uploadForm{Title: request.Title, URL: request.URL}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate file upload", "err", err.Error())
			uploadFailed(c, http.StatusNotAcceptable, page, settings.danger(err.Error()))
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			logger.Warn("file upload has no file", "err", err.Error())
			uploadFailed(c, http.StatusNotAcceptable, page, settings.danger("Please select a file"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("could not open uploaded file", "filename", fileHeader.Filename, "err", err.Error())
			uploadFailed(c, http.StatusInternalServerError, page, settings.failure("Error uploading file", err))
			return
		}
		defer file.Close()

		document, err := documents.UploadFile(c.Request.Context(), backend.FileUpload{
			Name:    fileHeader.Filename,
			Content: file,
			Title:   request.Title,
			URL:     request.URL,
		})
		if err != nil {
			logger.Error("could not upload file", "filename", fileHeader.Filename, "err", err.Error())
			uploadFailed(c, statusForBackendError(err), page, settings.failure("Error uploading file", err))
			return
		}

		logger.Info("uploaded file", "id", document.ID, "filename", fileHeader.Filename, "size", fileHeader.Size)
		uploadSucceeded(c, page, settings.success("File uploaded and indexed successfully!"))
	}
}

func handlePathUpload(documents DocumentIndexer, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := newUploadPage(uploadTabPath)

		request := PathRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from path upload", "err", err.Error())
			uploadFailed(c, http.StatusUnprocessableEntity, page, settings.danger("failed to extract request body parameters"))
			return
		}
		page.Form = uploadForm{Path: request.Path, Title: request.Title, URL: request.URL}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate path upload", "err", err.Error())
			uploadFailed(c, http.StatusNotAcceptable, page, settings.danger(err.Error()))
			return
		}

		document, err := documents.IndexFilePath(c.Request.Context(), request.Path, request.Title, request.URL)
		if err != nil {
			logger.Error("could not index file path", "path", request.Path, "err", err.Error())
			uploadFailed(c, statusForBackendError(err), page, settings.failure("Error indexing file", err))
			return
		}

		logger.Info("indexed file path", "id", document.ID, "path", request.Path)
		uploadSucceeded(c, page, settings.success("File indexed successfully!"))
	}
}

func handleDirectoryUpload(documents DocumentIndexer, logger logger.Logger, validator *validation.Validator, settings Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := newUploadPage(uploadTabDirectory)

		request := DirectoryRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from directory upload", "err", err.Error())
			uploadFailed(c, http.StatusUnprocessableEntity, page, settings.danger("failed to extract request body parameters"))
			return
		}
		page.Form = uploadForm{Path: request.Path, Recursive: request.Recursive}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate directory upload", "err", err.Error())
			uploadFailed(c, http.StatusNotAcceptable, page, settings.danger(err.Error()))
			return
		}

		if _, err := documents.IndexDirectory(c.Request.Context(), request.Path, request.Recursive); err != nil {
			logger.Error("could not start directory indexing", "path", request.Path, "err", err.Error())
			uploadFailed(c, statusForBackendError(err), page, settings.failure("Error indexing directory", err))
			return
		}

		logger.Info("started directory indexing", "path", request.Path, "recursive", request.Recursive)
		uploadSucceeded(c, page, settings.success("Directory indexing started successfully!"))
	}
}
