package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/agrocostos"
	"github.com/fwojciec/agrocostos/goquery"
	"github.com/fwojciec/agrocostos/harvest"
	achttp "github.com/fwojciec/agrocostos/http"
	"github.com/fwojciec/agrocostos/pdf"
	"github.com/fwojciec/agrocostos/rod"
	acslog "github.com/fwojciec/agrocostos/slog"
	acviper "github.com/fwojciec/agrocostos/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Browser is launched on demand and closed by Close.
	Browser *rod.BrowserManager

	// Services for end-to-end testing. When set, they replace the live
	// implementations.
	Seasons   agrocostos.SeasonService
	PDFs      agrocostos.PDFLinkService
	Documents agrocostos.DocumentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Browser != nil {
		return m.Browser.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("agrocostos"),
		kong.Description("Discover and query FIRA Agrocostos cost documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'agrocostos --help' to see available commands")
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

	cfg, err := acviper.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: configuration is read from %s_* environment variables and --config\n", acviper.EnvPrefix)
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	deps.Config = cfg
	deps.JSON = cli.JSON
	deps.Logger = newLogger(stderr, cli.Verbose)

	if err := m.wire(deps, kongCtx.Command()); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire fills deps with live services. The browser is only launched for
// commands that render pages.
func (m *Main) wire(deps *Dependencies, command string) error {
	cfg := deps.Config
	logger := deps.Logger

	if m.PDFs == nil && needsStatic(command) {
		client, err := achttp.NewClient(
			achttp.WithOrigin(cfg.Origin),
			achttp.WithPaths(cfg.CatalogPath, cfg.ListingPath),
			achttp.WithUserAgent(cfg.UserAgent),
			achttp.WithTimeout(cfg.HTTPTimeout),
			achttp.WithRate(cfg.RequestsPerSecond),
		)
		if err != nil {
			return fmt.Errorf("failed to create http client: %w", err)
		}
		m.PDFs = acslog.NewLoggingPDFLinkService(
			achttp.NewPDFLinkService(client, goquery.NewPDFExtractor(cfg.Origin)),
			logger,
		)
		deps.Downloader = acslog.NewLoggingDownloader(client, logger)
	}

	if (m.Seasons == nil || m.Documents == nil) && needsBrowser(command) {
		browser, err := rod.NewBrowserManager(
			rod.WithMaxContexts(cfg.MaxContexts),
			rod.WithBin(cfg.BrowserBin),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Browser = browser

		rcfg := rod.Config{
			Origin:            cfg.Origin,
			CatalogPath:       cfg.CatalogPath,
			ListingPath:       cfg.ListingPath,
			UserAgent:         cfg.UserAgent,
			NavigationTimeout: cfg.NavigationTimeout,
			ReadinessTimeout:  cfg.ReadinessTimeout,
			SettleDelay:       cfg.SettleDelay,
			RenderDelay:       cfg.RenderDelay,
		}

		if m.Seasons == nil {
			m.Seasons = acslog.NewLoggingSeasonService(&harvest.SeasonCatalog{
				Finder:   rod.NewSeasonFinder(browser, goquery.NewSeasonParser(cfg.AllowList), rcfg),
				Fallback: cfg.FallbackSeasons,
				Logger:   logger,
			}, logger)
		}

		if m.Documents == nil {
			listing := rod.NewLoggingListingBrowser(
				rod.NewListingBrowser(browser, goquery.NewListingParser(cfg.Origin), rcfg),
				logger,
			)
			deps.Harvester = acslog.NewLoggingHarvester(&harvest.Harvester{
				Browser: listing,
				Logger:  logger,
			}, logger)
			m.Documents = acslog.NewLoggingDocumentService(&harvest.Service{
				Seasons:          m.Seasons,
				Harvester:        deps.Harvester,
				Downloader:       deps.Downloader,
				Extractor:        pdf.NewExtractor(),
				Logger:           logger,
				PublicMaxPages:   cfg.PublicMaxPages,
				InternalMaxPages: cfg.InternalMaxPages,
			}, logger)
		}
	}

	deps.Seasons = m.Seasons
	deps.PDFs = m.PDFs
	deps.Documents = m.Documents
	return nil
}

// needsStatic reports whether command uses the plain HTTP client.
func needsStatic(command string) bool {
	switch commandName(command) {
	case "direct", "pdfs", "all", "report", "serve":
		return true
	}
	return false
}

// needsBrowser reports whether command renders pages.
func needsBrowser(command string) bool {
	return commandName(command) != "direct"
}

// commandName strips kong's argument placeholders, so "pdfs <folder-doc-id>"
// becomes "pdfs".
func commandName(command string) string {
	for i, r := range command {
		if r == ' ' {
			return command[:i]
		}
	}
	return command
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
