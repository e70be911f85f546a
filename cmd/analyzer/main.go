package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ddihora1604/IITK-ESG/internal/analyze"
	"github.com/ddihora1604/IITK-ESG/internal/config"
	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	"github.com/ddihora1604/IITK-ESG/internal/exporter"
	"github.com/ddihora1604/IITK-ESG/internal/infrastructure"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	outDir := flag.String("out", "", "output directory for workbooks (defaults to the configured output dir)")
	browser := flag.Bool("browser", false, "enable headless-browser fallback for script-rendered pages")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		return 2
	}

	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *browser {
		cfg.Fetch.BrowserFallback = true
	}

	paths := config.NewPaths(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	var opts []datasource.Option
	if cfg.Fetch.BrowserFallback {
		opts = append(opts, datasource.WithBrowser(
			datasource.NewBrowser(cfg.Fetch.BrowserHeadless, cfg.Fetch.UserAgent, cfg.Fetch.Timeout)))
	}
	client := datasource.NewClient(cfg.Fetch, opts...)
	aggregator := analyze.New(client, analyze.WithBrowserFallback(cfg.Fetch.BrowserFallback))
	writer := exporter.NewWorkbookWriter(paths)

	logger.Info("Starting analysis run",
		slog.String("output_dir", cfg.Output.Dir),
		slog.Int("tickers", flag.NArg()),
		slog.Bool("browser_fallback", cfg.Fetch.BrowserFallback))

	exitCode := 0
	for _, arg := range flag.Args() {
		ctx := infrastructure.ContextWithTraceID(context.Background())
		if err := analyzeTicker(ctx, arg, aggregator, writer); err != nil {
			exitCode = 1
		}
	}
	return exitCode
}

// analyzeTicker runs the full fetch-and-export pipeline for one
// ticker. Category failures degrade to placeholder sheets; only a
// total failure (every category down, or the export itself) is fatal.
func analyzeTicker(ctx context.Context, arg string, aggregator *analyze.Aggregator, writer *exporter.WorkbookWriter) error {
	logger := infrastructure.LoggerWithContext(ctx)

	doc, failures, err := aggregator.Run(ctx, arg)
	if err != nil {
		logger.Error("Analysis failed",
			slog.String("ticker", arg),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
		return err
	}

	path, err := writer.Write(doc)
	if err != nil {
		logger.Error("Export failed",
			slog.String("ticker", doc.Ticker),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%s: %v\n", doc.Ticker, err)
		return err
	}

	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for _, failure := range failures {
			names = append(names, string(failure.Category))
		}
		logger.Warn("Analysis completed with partial data",
			slog.String("ticker", doc.Ticker),
			slog.String("path", path),
			slog.String("failed_categories", strings.Join(names, ",")))
		fmt.Printf("%s: saved %s (missing: %s)\n", doc.Ticker, path, strings.Join(names, ", "))
		return nil
	}

	logger.Info("Analysis completed",
		slog.String("ticker", doc.Ticker),
		slog.String("path", path))
	fmt.Printf("%s: saved %s\n", doc.Ticker, path)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] TICKER [TICKER...]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Fetches market, financial and ESG data for each ticker and writes\n")
	fmt.Fprintf(os.Stderr, "a multi-sheet workbook per ticker into the output directory.\n\n")
	fmt.Fprintf(os.Stderr, "Categories exported per ticker:\n")
	for _, c := range domain.Categories {
		fmt.Fprintf(os.Stderr, "  %s\n", c)
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}
