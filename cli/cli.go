// Package cli implements searchctl, a terminal client for the search backend.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Search         *SearchCommand
	History        *HistoryCommand
	Popular        *PopularCommand
	AverageTime    *AverageTimeCommand
	Docs           *DocsCommand
	Add            *AddCommand
	Upload         *UploadCommand
	IndexPath      *IndexPathCommand
	IndexDirectory *IndexDirectoryCommand
	Delete         *DeleteCommand
	Reindex        *ReindexCommand
	Stats          *StatsCommand
	Analytics      *AnalyticsCommand
}

func buildParser() (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "searchctl"
	parser.LongDescription = "Search, index and inspect documents on the search backend from a terminal."

	cmds := &commands{
		Search:         &SearchCommand{globals: &globals},
		History:        &HistoryCommand{globals: &globals},
		Popular:        &PopularCommand{globals: &globals},
		AverageTime:    &AverageTimeCommand{globals: &globals},
		Docs:           &DocsCommand{globals: &globals},
		Add:            &AddCommand{globals: &globals},
		Upload:         &UploadCommand{globals: &globals},
		IndexPath:      &IndexPathCommand{globals: &globals},
		IndexDirectory: &IndexDirectoryCommand{globals: &globals},
		Delete:         &DeleteCommand{globals: &globals},
		Reindex:        &ReindexCommand{globals: &globals},
		Stats:          &StatsCommand{globals: &globals},
		Analytics:      &AnalyticsCommand{globals: &globals},
	}

	parser.AddCommand("search", "Search documents", "Run a paginated full-text search.", cmds.Search)
	parser.AddCommand("history", "Show recent searches", "Show the backend's search history, newest first.", cmds.History)
	parser.AddCommand("popular", "Show popular queries", "Show the most frequent queries within a look-back window.", cmds.Popular)
	parser.AddCommand("avg-time", "Show average search time", "Show the mean search latency within a look-back window.", cmds.AverageTime)
	parser.AddCommand("docs", "List documents", "List all documents, or only the unindexed ones.", cmds.Docs)
	parser.AddCommand("add", "Index raw text", "Index a manually entered document.", cmds.Add)
	parser.AddCommand("upload", "Upload and index a local file", "Upload a local file and index it.", cmds.Upload)
	parser.AddCommand("index-path", "Index a file on the backend host", "Index a file that already exists on the backend host.", cmds.IndexPath)
	parser.AddCommand("index-dir", "Index a directory on the backend host", "Start indexing a directory on the backend host. The job runs in the background.", cmds.IndexDirectory)
	parser.AddCommand("delete", "Delete a document", "Delete a document. Asks for confirmation unless --force is given.", cmds.Delete)
	parser.AddCommand("reindex", "Rebuild the index", "Start reindexing every document. The job runs in the background.", cmds.Reindex)
	parser.AddCommand("stats", "Show document statistics", "Show the indexed document count and the count per content type.", cmds.Stats)
	parser.AddCommand("analytics", "Show the analytics dashboard", "Show recent searches, popular queries, average search time and document statistics.", cmds.Analytics)

	return parser, &globals, cmds
}

// Run is the main entry point for searchctl using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Fprintf(stdout, "searchctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser()

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
