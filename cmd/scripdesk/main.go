// ScripDesk — personal NSE equity research toolkit.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/api"
	"github.com/kpraghav/scripdesk/internal/collect"
	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/internal/feed"
	"github.com/kpraghav/scripdesk/internal/logging"
	"github.com/kpraghav/scripdesk/internal/report"
	"github.com/kpraghav/scripdesk/internal/scrape"
	"github.com/kpraghav/scripdesk/internal/series"
	"github.com/kpraghav/scripdesk/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scripdesk",
	Short: "ScripDesk — NSE equity research toolkit",
	Long: `ScripDesk turns an NSE symbol into research artifacts:
a paginated PDF company report scraped from Screener.in, and a weekly
OHLCV price history CSV from Yahoo Finance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("output", "", "output directory override (default: current directory)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(candlesCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// outputDir resolves the artifact destination for this invocation.
func outputDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("output"); dir != "" {
		return dir
	}
	return cfg.Output.Dir
}

// buildRunner wires the pipeline components from the loaded config.
func buildRunner(dir string) (*collect.Runner, error) {
	extractor := scrape.NewExtractor(cfg.Scraper, log)
	renderer, err := report.NewRenderer(cfg.Report, log)
	if err != nil {
		return nil, err
	}
	downloader := series.NewDownloader(cfg.Series, log)
	return collect.NewRunner(extractor, renderer, downloader, dir, log), nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ScripDesk %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [symbol]...",
	Short: "Generate a PDF company report from Screener.in",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		extractor := scrape.NewExtractor(cfg.Scraper, log)
		renderer, err := report.NewRenderer(cfg.Report, log)
		if err != nil {
			return err
		}

		dir := outputDir(cmd)
		var failed int
		for _, raw := range args {
			model, err := extractor.Get(ctx, raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", raw, err)
				failed++
				continue
			}
			if _, err := renderer.Render(model, model.Symbol, dir); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", raw, err)
				failed++
			}
		}
		if failed == len(args) {
			return fmt.Errorf("all %d symbol(s) failed", failed)
		}
		return nil
	},
}

// --- Candles Command ---

var candlesCmd = &cobra.Command{
	Use:   "candles [symbol]...",
	Short: "Download weekly OHLCV history to CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		downloader := series.NewDownloader(cfg.Series, log)
		dir := outputDir(cmd)

		var failed int
		for _, raw := range args {
			candles, err := downloader.Download(ctx, raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", raw, err)
				failed++
				continue
			}
			if _, err := series.SaveCSV(candles, candles[0].Symbol, downloader.Years(), dir); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", raw, err)
				failed++
			}
		}
		if failed == len(args) {
			return fmt.Errorf("all %d symbol(s) failed", failed)
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]...",
	Short: "Generate both report and candle CSV per symbol",
	Long: `Run the full pipeline per symbol: scrape the company page into a PDF
report and download the weekly price history as CSV. With no symbols,
reads them interactively from stdin. Failed symbols are reported and
skipped; the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		dir := outputDir(cmd)
		runner, err := buildRunner(dir)
		if err != nil {
			return err
		}

		symbols := args
		if len(symbols) == 0 {
			symbols = promptSymbols()
			if len(symbols) == 0 {
				return fmt.Errorf("no symbols given")
			}
		}

		results := runner.RunAll(ctx, symbols)
		if len(results) == 0 {
			return fmt.Errorf("all %d symbol(s) failed", len(symbols))
		}

		var files []string
		for _, res := range results {
			files = append(files, res.ReportPath, res.SeriesPath)
		}

		if collectDir, _ := cmd.Flags().GetString("collect"); collectDir != "" {
			copied, err := collect.CopyInto(collectDir, files)
			if err != nil {
				return err
			}
			fmt.Printf("Collected %d file(s) into %s\n", len(copied), collectDir)
		}
		if zipPath, _ := cmd.Flags().GetString("zip"); zipPath != "" {
			if err := collect.ZipInto(zipPath, files); err != nil {
				return err
			}
			fmt.Printf("Archived %d file(s) into %s\n", len(files), zipPath)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("collect", "", "copy generated artifacts into this directory")
	analyzeCmd.Flags().String("zip", "", "write generated artifacts into this zip file")
}

// promptSymbols reads symbols interactively, one per line, until a
// blank line or "exit".
func promptSymbols() []string {
	var symbols []string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter symbol (blank to finish): ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.EqualFold(line, "exit") {
			break
		}
		symbols = append(symbols, line)
	}
	return symbols
}

// --- Watch Command ---

var watchCmd = &cobra.Command{
	Use:   "watch [symbol]",
	Short: "Stream live ticks for a symbol from the broker feed",
	Long: `Connect to the broker tick websocket and print live updates.
Requires SCRIPDESK_FEED_API_KEY, SCRIPDESK_FEED_API_SECRET and
SCRIPDESK_FEED_SESSION_TOKEN in the environment or a .env file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := utils.ValidateSymbol(args[0])
		if err != nil {
			return err
		}
		exchange, _ := cmd.Flags().GetString("exchange")

		client, err := feed.NewClient(cfg.Feed, log)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()

		if err := client.Subscribe(symbol, exchange); err != nil {
			return err
		}

		fmt.Printf("Watching %s@%s (Ctrl-C to stop)\n", symbol, exchange)
		return client.Listen(ctx, func(t feed.Tick) {
			at := utils.ToIST(time.Unix(t.Time, 0)).Format("15:04:05")
			fmt.Printf("%s  %s  last=%.2f  vol=%d\n", at, t.Symbol, t.Last, t.Volume)
		})
	},
}

func init() {
	watchCmd.Flags().String("exchange", "NSE", "exchange code for the subscription")
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := outputDir(cmd)
		runner, err := buildRunner(dir)
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, runner, log)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("Starting ScripDesk API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  ScripDesk — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (IST):    %s\n", utils.NowIST().Format("2006-01-02 15:04:05"))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Scraper:       %s (%d req/s, %d retries)\n",
			cfg.Scraper.BaseURL, cfg.Scraper.RateLimitPerSec, cfg.Scraper.RetryAttempts)
		fmt.Printf("    Series:        %s (%d years, %s)\n",
			cfg.Series.BaseURL, cfg.Series.LookbackYears, cfg.Series.Interval)
		fmt.Printf("    Report engine: %s (%s %s)\n",
			cfg.Report.Engine, cfg.Report.PageSize, cfg.Report.Orientation)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  Feed Credentials:")
		for _, k := range config.CheckCredentials(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
