package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	outFormat   string
	textInput   string
	textFile    string
	textTitle   string
	textSource  string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyze a URL or pasted text and score its credibility signals",
	Long: `Analyze runs five independent signal analyzers over one piece of text:
- Synthetic text: does the writing look machine-generated?
- Sourcing: are claims attributed, and to whom?
- Linguistic: urgency framing, loaded language, hedging
- Temporal: is the story dated and independently covered?
- Structural: does the headline match the body?

The signals are aggregated into a confidence band with an explanation
of every scored input.

Example:
  credence analyze https://example.com/article
  credence analyze https://example.com --json report.json --md report.md
  credence analyze --text "Pasted story body..." --title "Headline"
  credence analyze --file article.txt --source example.com
  credence analyze https://example.com --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&textInput, "text", "", "analyze pasted text instead of a URL")
	analyzeCmd.Flags().StringVar(&textFile, "file", "", "analyze text read from a file")
	analyzeCmd.Flags().StringVar(&textTitle, "title", "", "headline for pasted or file text")
	analyzeCmd.Flags().StringVar(&textSource, "source", "", "source name for pasted or file text")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the report as JSON to this path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write the report as Markdown to this path")
	analyzeCmd.Flags().StringVar(&outFormat, "format", "", "stdout format: text, json or markdown (default: text)")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM briefing")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputs := 0
	if len(args) == 1 {
		inputs++
	}
	if textInput != "" {
		inputs++
	}
	if textFile != "" {
		inputs++
	}
	if inputs != 1 {
		return fmt.Errorf("provide exactly one input: a URL argument, --text, or --file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := loadConfig()
	applyAnalysisFlags(cmd, cfg)
	if err := resolveLLMKeys(cfg); err != nil {
		return err
	}

	p := pipeline.New(cfg)

	var report *model.Report
	var err error
	switch {
	case len(args) == 1:
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Analyzing: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
			fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
			fmt.Fprintln(os.Stderr)
		}
		report, err = p.AnalyzeURL(ctx, args[0])
	case textFile != "":
		data, readErr := os.ReadFile(textFile)
		if readErr != nil {
			return fmt.Errorf("read input file: %w", readErr)
		}
		report, err = p.AnalyzeText(ctx, textTitle, string(data), textSource)
	default:
		report, err = p.AnalyzeText(ctx, textTitle, textInput, textSource)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cfg.Output.Verbose {
		for _, s := range report.Signals.All() {
			fmt.Fprintf(os.Stderr, "✓ %s: %s (%d/100)\n", model.DisplayName(s.Name), s.Result.Level, s.Result.Score)
		}
		fmt.Fprintf(os.Stderr, "✓ Confidence band: %s\n", report.Aggregation.ConfidenceBand)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM briefing using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	return emitReport(p, cfg, report)
}

// applyAnalysisFlags overrides loaded configuration with flags the user
// actually set, so config file values survive untouched defaults.
func applyAnalysisFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if cmd.Flags().Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if cmd.Flags().Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if cmd.Flags().Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
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
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outFormat
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

// resolveLLMKeys fills provider credentials from the environment when a
// provider is enabled without an explicit key.
func resolveLLMKeys(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "":
		return nil
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// emitReport writes requested report files and prints the report to
// stdout in the configured format.
func emitReport(p *pipeline.Pipeline, cfg *model.Config, report *model.Report) error {
	format := cfg.Output.Format
	if format == "" || format == "text" {
		if err := p.RenderReport(report, outJSON, outMD, cfg.Output.Verbose); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return nil
	}

	renderer := p.Renderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}

	out, err := renderer.Render(report, format)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
