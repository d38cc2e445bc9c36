package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple URLs from a file in parallel",
	Long: `Batch analyzes multiple URLs concurrently:
- Read URLs from an input file (one per line, # for comments)
- Analyze URLs in parallel with a configurable worker count
- Write an individual JSON and Markdown report per URL
- Print a per-band summary of the whole run

Example:
  credence batch urls.txt
  credence batch urls.txt --concurrency 8 --output-dir ./reports
  credence batch urls.txt --concurrency 4 --timeout 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config batch.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./credence-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared analysis flags
	batchCmd.Flags().DurationVar(&timeout, "fetch-timeout", 30*time.Second, "timeout for individual fetches")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM briefing")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	applyBatchFlags(cmd, cfg)
	if err := resolveLLMKeys(cfg); err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if concurrency > 0 {
		workers = concurrency
	}
	if workers <= 0 {
		workers = 1
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Credence Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// One pipeline serves all workers; its fetcher shares one
	// per-domain limiter across the batch.
	p := pipeline.New(cfg)
	processor := worker.NewBatchProcessor(p, workers, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	fmt.Fprintf(os.Stderr, "⚙️  Reading URLs from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d URLs with %d workers\n", len(results), workers)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := p.Renderer()
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}

		slug := sanitizeFilename(result.Report.Subject)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.URL, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.URL, err)
			continue
		}
		if result.Report.LLM != nil && result.Report.LLM.Enabled {
			llmPath := filepath.Join(outputDir, slug+".llm.md")
			if err := renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(result.Report.LLM), llmPath); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write LLM briefing: %v\n", result.URL, err)
			}
		}

		fmt.Fprintf(os.Stderr, "✓ %s (band: %s)\n", result.Report.Subject, result.Report.Aggregation.ConfidenceBand)
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	for _, band := range []model.Level{model.LevelLow, model.LevelMedium, model.LevelHigh} {
		if n := summary.ByBand[band]; n > 0 {
			fmt.Fprintf(os.Stderr, "  Band %-7s %d\n", string(band)+":", n)
		}
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// applyBatchFlags mirrors applyAnalysisFlags for the batch flag set.
func applyBatchFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("fetch-timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if cmd.Flags().Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if cmd.Flags().Changed("no-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
	if cmd.Flags().Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if cmd.Flags().Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if cmd.Flags().Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.Grounded = true // Always enforce
	}
}

// sanitizeFilename makes a report subject safe to use as a filename.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}

	return s
}
