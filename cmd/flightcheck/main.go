package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/v0xg/flightcheck/internal/browser"
	"github.com/v0xg/flightcheck/internal/config"
	"github.com/v0xg/flightcheck/internal/evidence"
	"github.com/v0xg/flightcheck/internal/scenario"
	"github.com/v0xg/flightcheck/internal/triage"
	"github.com/v0xg/flightcheck/internal/verify"
)

var (
	configPath string
	headless   bool
	record     bool
	useTriage  bool
	provider   string
	model      string
	profile    string
	verbose    bool
)

var (
	passed = color.New(color.FgGreen, color.Bold)
	failed = color.New(color.FgRed, color.Bold)
	dim    = color.New(color.Faint)
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "flightcheck",
		Short: "End-to-end checks for a flight search site",
		Long: `flightcheck drives a flight search site in Chrome: it fills the search form,
applies time, transit, airline and airport filters, sorts by price and verifies
that the listed prices ascend.

Example:
  flightcheck run --config config.properties airline-price-sort`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Properties file (default: config.properties if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	runCmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios (all when none are named)",
		RunE:  runScenarios,
	}
	runCmd.Flags().BoolVar(&headless, "headless", false, "Run Chrome headless (overrides config)")
	runCmd.Flags().BoolVar(&record, "record", false, "Write a GIF of the steps for each scenario")
	runCmd.Flags().BoolVar(&useTriage, "triage", false, "Ask an LLM to diagnose failures")
	runCmd.Flags().StringVar(&provider, "provider", "", "Triage provider: claude, openai (default: from env or claude)")
	runCmd.Flags().StringVar(&model, "model", "", "Specific model override")
	runCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range scenario.All() {
				fmt.Printf("%-24s %s\n", s.Name, s.Title)
				dim.Printf("%-24s %s\n", "", s.Description)
			}
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <samples.json>",
		Short: "Verify ascending order of a recorded price list",
		Long: `verify reads a JSON array of {"text": "...", "value": "..."} rows, as
captured from the flight list, and prints the price sorting report.`,
		Args: cobra.ExactArgs(1),
		RunE: verifyFile,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, e := range cfg.Entries() {
				fmt.Printf("%-20s %s\n", e[0], e[1])
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, verifyCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScenarios(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg = cfg.WithHeadless(headless)
	}
	if !strings.EqualFold(cfg.Browser, "chrome") {
		log.Warn("only chrome is supported, ignoring browser setting", zap.String("browser", cfg.Browser))
	}

	selected, err := selectScenarios(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scenario.Options{
		Config: cfg,
		Store:  evidence.NewStore(cfg.ScreenshotPath, cfg.ArtifactPath, log),
		Record: record,
		Logger: log,
		Launch: func(ctx context.Context) (scenario.Browser, error) {
			s, err := browser.Launch(ctx, browser.Options{
				Width:      cfg.ViewportWidth,
				Height:     cfg.ViewportHeight,
				Headless:   cfg.Headless,
				Stealth:    cfg.Stealth,
				ProfileDir: profile,
				Logger:     log,
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	if useTriage {
		name := provider
		if name == "" {
			name = os.Getenv("FLIGHTCHECK_DEFAULT_PROVIDER")
			if name == "" {
				name = "claude"
			}
		}
		p, err := triage.NewProvider(name, model)
		if err != nil {
			return fmt.Errorf("triage provider init failed: %w", err)
		}
		opts.Triage = p
	}

	runner, err := scenario.NewRunner(opts)
	if err != nil {
		return err
	}

	var results []scenario.Result
	for _, s := range selected {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("→ %s... ", s.Title)
		if verbose {
			fmt.Println()
		}
		res := runner.Run(ctx, s)
		results = append(results, res)
		printResult(res)
	}
	return summarize(results)
}

func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		return scenario.All(), nil
	}
	var out []scenario.Scenario
	for _, name := range names {
		s, ok := scenario.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario: %s (see flightcheck list)", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func printResult(res scenario.Result) {
	took := res.Duration.Round(100 * time.Millisecond)
	if res.Passed {
		passed.Printf("PASSED")
		fmt.Printf(" (%d steps, %s)\n", len(res.Steps), took)
	} else {
		failed.Printf("FAILED")
		fmt.Printf(" (%s)\n", took)
		fmt.Printf("  %v\n", res.Err)
		if res.Screenshot != "" {
			fmt.Printf("  screenshot: %s\n", res.Screenshot)
		}
		if res.Diagnosis != nil {
			fmt.Printf("  triage: [%s] %s\n", res.Diagnosis.Category, res.Diagnosis.Summary)
		}
	}
	for _, a := range res.Attachments {
		dim.Printf("  %s: %s\n", a.Name, a.Path)
	}
}

func summarize(results []scenario.Result) error {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	fmt.Println()
	if n > 0 {
		failed.Printf("✗ %d of %d scenarios failed\n", n, len(results))
		return fmt.Errorf("%d of %d scenarios failed", n, len(results))
	}
	passed.Printf("✓ %d scenarios passed\n", len(results))
	return nil
}

func verifyFile(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var samples []verify.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	r := verify.Verify(samples)
	fmt.Print(r.Text)
	fmt.Println()
	if !r.Success {
		failed.Println("✗ Price sorting verification failed")
		return fmt.Errorf("prices are not in ascending order")
	}
	passed.Print(r.Summary(""))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
