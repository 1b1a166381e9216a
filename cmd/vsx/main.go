package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/vsx"
	"github.com/fwojciec/vsx/config"
	"github.com/fwojciec/vsx/etree"
	"github.com/fwojciec/vsx/health"
	vsxhttp "github.com/fwojciec/vsx/http"
	"github.com/fwojciec/vsx/scan"
	vsxslog "github.com/fwojciec/vsx/slog"
	"github.com/fwojciec/vsx/sqlite"
	"github.com/fwojciec/vsx/svg"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config path override. Set before calling Run().
	ConfigPath string

	// Loaded configuration.
	Config *config.Config

	// SQLite database used by the SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	StencilService vsx.StencilService
	ScanService    vsx.ScanService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: os.Getenv("VSX_CONFIG"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("vsx"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'vsx --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Config != "" {
		m.ConfigPath = cli.Config
	}
	m.Config, err = config.Load(m.ConfigPath)
	if err != nil {
		return err
	}
	deps.Config = m.Config

	m.DB = sqlite.NewDB(m.Config.Catalog.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: set catalog.dbPath or VSX_CATALOG_DBPATH to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.Config.Catalog.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies.
	m.StencilService = sqlite.NewStencilService(m.DB)
	deps.DB = m.DB
	deps.Stencils = m.StencilService
	deps.Shapes = sqlite.NewShapeService(m.DB)
	deps.Search = vsxslog.NewLoggingSearchService(sqlite.NewSearchService(m.DB), deps.Logger)
	deps.Favorites = sqlite.NewFavoriteService(m.DB)
	deps.Collections = sqlite.NewCollectionService(m.DB)
	deps.Directories = sqlite.NewDirectoryService(m.DB)
	deps.SavedSearches = sqlite.NewSavedSearchService(m.DB)

	deps.Health = &health.Analyzer{
		Stencils:   deps.Stencils,
		Shapes:     deps.Shapes,
		Thresholds: m.Config.Health.Thresholds(),
	}

	scanner := &scan.Scanner{
		Stencils:    deps.Stencils,
		Extractor:   vsxslog.NewLoggingExtractor(etree.NewExtractor(), deps.Logger),
		Extensions:  m.Config.Scan.Extensions,
		Concurrency: m.Config.Scan.Concurrency,
	}

	// Wire command-specific dependencies based on command.
	if cmd == "scan" {
		if cli.Scan.Concurrency > 0 {
			scanner.Concurrency = cli.Scan.Concurrency
		}
		if !cli.Scan.Quiet {
			scanner.Progress = func(p vsx.ScanProgress) {
				switch p.Phase {
				case vsx.ScanIngested:
					fmt.Fprintf(stdout, "  %s\n", p.Path)
				case vsx.ScanFailed:
					fmt.Fprintf(stderr, "  skip %s: %v\n", p.Path, p.Err)
				}
			}
		}
	}
	m.ScanService = scanner
	deps.Scans = m.ScanService

	deps.Previews = svg.NewCachingRenderer(&svg.Renderer{})

	bridge := vsxhttp.NewBridge(m.Config.Bridge.URL,
		vsxhttp.WithBridgeTimeout(time.Duration(m.Config.Bridge.TimeoutSeconds)*time.Second))
	deps.Gateway = vsxslog.NewLoggingGateway(bridge, deps.Logger)

	return kongCtx.Run(deps)
}
