package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Backend string `long:"backend" description:"Search backend base URL (defaults to BACKEND_URL or the config file)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Log backend requests to stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// SearchCommand runs a paginated query.
type SearchCommand struct {
	Query string `short:"q" long:"query" description:"Search query (remaining arguments are used when empty)"`
	Page  int    `long:"page" description:"Page number, starting at 1" default:"1"`
	Size  int    `long:"size" description:"Results per page (defaults to the configured page size)"`

	globals *GlobalFlags
}

type HistoryCommand struct {
	Limit int `long:"limit" description:"Maximum entries to print, 0 for all" default:"0"`

	globals *GlobalFlags
}

type PopularCommand struct {
	Days int `long:"days" description:"Look-back window in days" default:"30"`

	globals *GlobalFlags
}

type AverageTimeCommand struct {
	Days int `long:"days" description:"Look-back window in days" default:"30"`

	globals *GlobalFlags
}

// DocsCommand lists documents known to the backend.
type DocsCommand struct {
	Unindexed bool `long:"unindexed" description:"Only documents that are not indexed yet"`

	globals *GlobalFlags
}

// AddCommand indexes raw text.
type AddCommand struct {
	Title   string `long:"title" description:"Document title (required)"`
	Content string `long:"content" description:"Document content (required)"`
	URL     string `long:"url" description:"Document URL (a manual:// URL is generated when empty)"`

	globals *GlobalFlags
}

// UploadCommand sends a local file through the multipart upload endpoint.
type UploadCommand struct {
	File  string `long:"file" description:"Path of the local file to upload (required)"`
	Title string `long:"title" description:"Document title"`
	URL   string `long:"url" description:"Document URL"`

	globals *GlobalFlags
}

// IndexPathCommand asks the backend to ingest a file from its own filesystem.
type IndexPathCommand struct {
	Path  string `long:"path" description:"File path on the backend host (required)"`
	Title string `long:"title" description:"Document title"`
	URL   string `long:"url" description:"Document URL"`

	globals *GlobalFlags
}

type IndexDirectoryCommand struct {
	Path      string `long:"path" description:"Directory path on the backend host (required)"`
	Recursive bool   `long:"recursive" description:"Include subdirectories"`

	globals *GlobalFlags
}

// DeleteCommand removes one document, after confirmation unless forced.
type DeleteCommand struct {
	ID    int64 `long:"id" description:"Document ID (required)"`
	Force bool  `long:"force" description:"Skip the confirmation prompt"`

	globals *GlobalFlags
}

type ReindexCommand struct {
	Force bool `long:"force" description:"Skip the confirmation prompt"`

	globals *GlobalFlags
}

type StatsCommand struct {
	globals *GlobalFlags
}

// AnalyticsCommand prints the same dashboard as the analytics tab.
type AnalyticsCommand struct {
	Days int `long:"days" description:"Look-back window in days (defaults to the configured analytics window)"`

	globals *GlobalFlags
}
