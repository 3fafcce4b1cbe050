package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/views"
)

// Execute implements the go-flags Commander interface for DocsCommand.
func (c *DocsCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var documents []backend.Document
	if c.Unindexed {
		documents, err = s.documents.GetUnindexedDocuments(ctx)
	} else {
		documents, err = s.documents.GetAllDocuments(ctx)
	}
	if err != nil {
		return failed("could not load documents", err)
	}

	if c.globals.JSON {
		return printJSON(documents)
	}

	if len(documents) == 0 {
		fmt.Fprintln(stdout, "No documents found.")
		return nil
	}

	table := newTable()
	fmt.Fprintln(table, "ID\tTITLE\tTYPE\tSIZE\tINDEXED\tCREATED")
	for _, document := range documents {
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%s\n",
			document.ID,
			views.Truncate(document.Title, views.ListURLLength),
			views.ContentType(document.ContentType),
			views.FileSize(document.FileSize),
			indexedLabel(document),
			views.Date(document.CreatedAt),
		)
	}
	return table.Flush()
}

func indexedLabel(document backend.Document) string {
	if !document.IsIndexed {
		return "no"
	}
	if document.IndexedAt != nil && !document.IndexedAt.IsZero() {
		return views.Date(*document.IndexedAt)
	}
	return "yes"
}

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("add requires --title")
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("add requires --content")
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	document, err := s.documents.IndexDocument(context.Background(), c.Title, c.Content, c.URL)
	if err != nil {
		return failed("Error indexing document", err)
	}

	return printDocument(c.globals, "Document indexed successfully!", document)
}

// Execute implements the go-flags Commander interface for UploadCommand.
func (c *UploadCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("upload requires --file")
	}

	file, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.File, err)
	}
	defer file.Close()

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	document, err := s.documents.UploadFile(context.Background(), backend.FileUpload{
		Name:    filepath.Base(c.File),
		Content: file,
		Title:   c.Title,
		URL:     c.URL,
	})
	if err != nil {
		return failed("Error uploading file", err)
	}

	return printDocument(c.globals, "File uploaded and indexed successfully!", document)
}

// Execute implements the go-flags Commander interface for IndexPathCommand.
func (c *IndexPathCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("index-path requires --path")
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	document, err := s.documents.IndexFilePath(context.Background(), c.Path, c.Title, c.URL)
	if err != nil {
		return failed("Error indexing file", err)
	}

	return printDocument(c.globals, "File indexed successfully!", document)
}

// Execute implements the go-flags Commander interface for IndexDirectoryCommand.
func (c *IndexDirectoryCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("index-dir requires --path")
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	ack, err := s.documents.IndexDirectory(context.Background(), c.Path, c.Recursive)
	if err != nil {
		return failed("Error indexing directory", err)
	}

	return printAck(c.globals, "Directory indexing started successfully!", ack)
}

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID <= 0 {
		return fmt.Errorf("delete requires a positive --id")
	}

	if !c.Force {
		ok, err := confirm("Delete document " + strconv.FormatInt(c.ID, 10) + "? This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	ack, err := s.documents.DeleteDocument(context.Background(), c.ID)
	if err != nil {
		return failed("Error deleting document", err)
	}

	return printAck(c.globals, "Document deleted successfully!", ack)
}

// Execute implements the go-flags Commander interface for ReindexCommand.
func (c *ReindexCommand) Execute(args []string) error {
	if !c.Force {
		ok, err := confirm("Reindex every document? This may take a while.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	ack, err := s.documents.ReindexAllDocuments(context.Background())
	if err != nil {
		return failed("Error reindexing documents", err)
	}

	return printAck(c.globals, "Reindexing started successfully! This will run in the background.", ack)
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}

	stats, err := s.documents.GetDocumentStats(context.Background())
	if err != nil {
		return failed("could not load document stats", err)
	}

	if c.globals.JSON {
		return printJSON(stats)
	}

	fmt.Fprintf(stdout, "Indexed documents: %d\n", stats.IndexedCount)
	printContentTypes(stats.StatsByContentType)
	return nil
}

func printContentTypes(counts []backend.ContentTypeCount) {
	if len(counts) == 0 {
		return
	}

	fmt.Fprintln(stdout)
	table := newTable()
	fmt.Fprintln(table, "CONTENT TYPE\tCOUNT")
	for _, count := range counts {
		fmt.Fprintf(table, "%s\t%d\n", views.ContentType(count.ContentType), count.Count)
	}
	table.Flush()
}

func printDocument(globals *GlobalFlags, message string, document *backend.Document) error {
	if globals.JSON {
		return printJSON(document)
	}

	fmt.Fprintln(stdout, message)
	fmt.Fprintf(stdout, "  id:    %d\n", document.ID)
	fmt.Fprintf(stdout, "  title: %s\n", document.Title)
	if document.URL != "" {
		fmt.Fprintf(stdout, "  url:   %s\n", document.URL)
	}
	return nil
}

// printAck prints the backend's message when it sent one, otherwise the
// console's wording for the same action.
func printAck(globals *GlobalFlags, message string, ack *backend.Ack) error {
	if globals.JSON {
		return printJSON(ack)
	}

	if ack != nil && ack.Message != "" {
		message = ack.Message
	}
	fmt.Fprintln(stdout, message)
	return nil
}
