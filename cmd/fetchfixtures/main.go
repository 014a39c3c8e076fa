// Command fetchfixtures records live OMDb title search responses as the
// fixtures served by the static client.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/metadata/mock"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// scenario is one recorded request. An empty apiKey means the configured key.
type scenario struct {
	fixture string
	apiKey  string
	title   string
	noKey   bool
}

var scenarios = []scenario{
	{fixture: mock.FixtureNoAPIKey, title: "xxx", noKey: true},
	{fixture: mock.FixtureInvalidAPIKey, apiKey: "1234", title: "xxx"},
	{fixture: mock.FixtureEmptyTitle, title: ""},
	{fixture: mock.FixtureQueryTooLong, title: strings.Repeat("x", 251)},
	{fixture: mock.FixtureTooManyResults, title: " "},
	{fixture: mock.FixtureNoResults, title: "qwertyuiopasdfgh"},
	{fixture: mock.FixtureOKPageResults, title: "xxx"},
}

func main() {
	outDir := flag.String("out", filepath.Join("internal", "metadata", "mock", "fixtures"), "fixture output directory")
	only := flag.String("only", "", "record a single fixture, e.g. titlesearch/no-results")
	flag.Parse()

	_ = godotenv.Load()

	// Use a no-op logger to keep the output readable.
	logger := zerolog.Nop()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(cfg.OMDb.APIKey) == "" {
		fmt.Fprintln(os.Stderr, "REELFINDER_OMDB_API_KEY is required")
		os.Exit(1)
	}

	ctx := context.Background()
	failed := 0
	for _, sc := range scenarios {
		if *only != "" && sc.fixture != *only {
			continue
		}
		if err := record(ctx, cfg.OMDb, sc, *outDir, logger); err != nil {
			fmt.Printf("FAIL %s: %v\n", sc.fixture, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s\n", sc.fixture)
		time.Sleep(250 * time.Millisecond) // Rate limiting
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func record(ctx context.Context, cfg config.OMDBConfig, sc scenario, outDir string, logger zerolog.Logger) error {
	switch {
	case sc.noKey:
		cfg.APIKey = ""
	case sc.apiKey != "":
		cfg.APIKey = sc.apiKey
	}

	client := omdb.NewClient(cfg, logger)
	body, status, err := client.RawTitleSearch(ctx, omdb.TitleSearchParams{Title: sc.title, Page: 1})
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, sc.fixture+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	fmt.Printf("     %s -> HTTP %d, %d bytes\n", sc.fixture, status, len(body))
	return os.WriteFile(path, prettyJSON(body), 0o644)
}

// prettyJSON indents valid JSON and returns anything else unchanged, so
// malformed answers are recorded as served.
func prettyJSON(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return body
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
