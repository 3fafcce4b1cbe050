package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/config"
	"github.com/meghashyamc/searchdesk/logger"
)

// Swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// session is what every command needs to reach the backend.
type session struct {
	cfg       *config.Config
	logger    logger.Logger
	search    *backend.SearchClient
	documents *backend.DocumentClient
}

// openSession resolves the backend URL (--backend wins over the environment
// and the config file) and builds both clients.
func openSession(globals *GlobalFlags) (*session, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Discard()
	if globals.Verbose {
		log = logger.NewWithWriter(os.Stderr, slog.LevelDebug)
	}

	baseURL := cfg.GetBackendURL()
	if globals.Backend != "" {
		baseURL = strings.TrimRight(globals.Backend, "/")
	}

	timeout := backend.WithTimeout(cfg.GetBackendTimeout())

	return &session{
		cfg:       cfg,
		logger:    log,
		search:    backend.NewSearchClient(baseURL, log, timeout),
		documents: backend.NewDocumentClient(baseURL, log, timeout),
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

// confirm asks on stdout and reads one line from stdin. Only "y" or "yes"
// count as consent.
func confirm(prompt string) (bool, error) {
	fmt.Fprintf(stdout, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		return false, fmt.Errorf("aborted: no input received")
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// failed wraps a backend error with the action that failed, keeping the
// backend's own message.
func failed(action string, err error) error {
	return fmt.Errorf("%s: %s", action, backend.UserMessage(err))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
