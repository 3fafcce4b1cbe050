package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/meghashyamc/searchdesk/logger"
)

const manualURLPrefix = "manual://document-"

type DocumentClient struct {
	transport *transport
	now       func() time.Time
}

// FileUpload is a file to send through the multipart upload endpoint.
type FileUpload struct {
	Name    string
	Content io.Reader
	Title   string
	URL     string
}

func NewDocumentClient(baseURL string, logger logger.Logger, opts ...Option) *DocumentClient {
	return &DocumentClient{
		transport: newTransport(baseURL, logger, opts...),
		now:       time.Now,
	}
}

// ManualURL is the placeholder URL given to manually entered documents
// submitted without one.
func ManualURL(at time.Time) string {
	return manualURLPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}

// IndexDocument indexes raw text. An empty url is replaced by ManualURL.
func (c *DocumentClient) IndexDocument(ctx context.Context, title string, content string, documentURL string) (*Document, error) {
	if strings.TrimSpace(documentURL) == "" {
		documentURL = ManualURL(c.now())
	}

	form := url.Values{}
	form.Set("title", title)
	form.Set("content", content)
	form.Set("url", documentURL)

	var document Document
	if err := c.transport.sendForm(ctx, "index document", http.MethodPost, "/documents", form, &document); err != nil {
		return nil, err
	}

	return &document, nil
}

func (c *DocumentClient) UploadFile(ctx context.Context, upload FileUpload) (*Document, error) {
	const op = "upload file"

	if upload.Content == nil {
		return nil, invalidArgument(op, "file content is required")
	}
	name := filepath.Base(upload.Name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return nil, invalidArgument(op, "file name is required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFilePart(writer, name, upload.Content); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if upload.Title != "" {
		if err := writer.WriteField("title", upload.Title); err != nil {
			return nil, fmt.Errorf("%s: write title: %w", op, err)
		}
	}
	if upload.URL != "" {
		if err := writer.WriteField("url", upload.URL); err != nil {
			return nil, fmt.Errorf("%s: write url: %w", op, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart body: %w", op, err)
	}

	var document Document
	if err := c.transport.sendBody(ctx, op, "/documents/upload", writer.FormDataContentType(), body, &document); err != nil {
		return nil, err
	}

	return &document, nil
}

// writeFilePart sniffs the content type from the leading bytes. The backend
// still decides the stored content type.
func writeFilePart(writer *multipart.Writer, name string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", mimetype.Detect(data).String())

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// IndexFilePath asks the backend to ingest a file from its own filesystem.
func (c *DocumentClient) IndexFilePath(ctx context.Context, path string, title string, documentURL string) (*Document, error) {
	const op = "index file path"

	if strings.TrimSpace(path) == "" {
		return nil, invalidArgument(op, "path is required")
	}

	form := url.Values{}
	form.Set("path", path)
	if title != "" {
		form.Set("title", title)
	}
	if documentURL != "" {
		form.Set("url", documentURL)
	}

	var document Document
	if err := c.transport.sendForm(ctx, op, http.MethodPost, "/documents/index-path", form, &document); err != nil {
		return nil, err
	}

	return &document, nil
}

// IndexDirectory starts an asynchronous directory ingest. The returned Ack
// only means the job was accepted.
func (c *DocumentClient) IndexDirectory(ctx context.Context, path string, recursive bool) (*Ack, error) {
	const op = "index directory"

	if strings.TrimSpace(path) == "" {
		return nil, invalidArgument(op, "path is required")
	}

	form := url.Values{}
	form.Set("path", path)
	form.Set("recursive", strconv.FormatBool(recursive))

	var ack Ack
	if err := c.transport.sendForm(ctx, op, http.MethodPost, "/documents/index-directory", form, &ack); err != nil {
		return nil, err
	}

	return &ack, nil
}

func (c *DocumentClient) GetAllDocuments(ctx context.Context) ([]Document, error) {
	return c.listDocuments(ctx, "get all documents", "/documents")
}

func (c *DocumentClient) GetUnindexedDocuments(ctx context.Context) ([]Document, error) {
	return c.listDocuments(ctx, "get unindexed documents", "/documents/unindexed")
}

func (c *DocumentClient) listDocuments(ctx context.Context, op string, path string) ([]Document, error) {
	documents := []Document{}
	if err := c.transport.get(ctx, op, path, nil, &documents); err != nil {
		return nil, err
	}
	if documents == nil {
		documents = []Document{}
	}

	return documents, nil
}

func (c *DocumentClient) UpdateDocument(ctx context.Context, id int64, title string, content string, documentURL string) (*Document, error) {
	form := url.Values{}
	form.Set("title", title)
	form.Set("content", content)
	form.Set("url", documentURL)

	var document Document
	if err := c.transport.sendForm(ctx, "update document", http.MethodPut, documentPath(id), form, &document); err != nil {
		return nil, err
	}

	return &document, nil
}

func (c *DocumentClient) DeleteDocument(ctx context.Context, id int64) (*Ack, error) {
	var ack Ack
	if err := c.transport.delete(ctx, "delete document", documentPath(id), &ack); err != nil {
		return nil, err
	}

	return &ack, nil
}

// ReindexAllDocuments triggers a full rebuild on the backend. Completion is
// not observable from here.
func (c *DocumentClient) ReindexAllDocuments(ctx context.Context) (*Ack, error) {
	var ack Ack
	if err := c.transport.sendBody(ctx, "reindex all documents", "/documents/reindex", "", nil, &ack); err != nil {
		return nil, err
	}

	return &ack, nil
}

func (c *DocumentClient) GetDocumentStats(ctx context.Context) (*DocumentStats, error) {
	var stats DocumentStats
	if err := c.transport.get(ctx, "get document stats", "/documents/stats", nil, &stats); err != nil {
		return nil, err
	}
	if stats.StatsByContentType == nil {
		stats.StatsByContentType = []ContentTypeCount{}
	}

	return &stats, nil
}

func documentPath(id int64) string {
	return "/documents/" + url.PathEscape(strconv.FormatInt(id, 10))
}
