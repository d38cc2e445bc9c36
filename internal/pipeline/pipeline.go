// Package pipeline orchestrates one analysis run: acquire content,
// score the five signals concurrently, aggregate, and optionally attach
// the LLM briefing. The fetch and render stages also live here.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/aggregate"
	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/corroborate"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/inference"
	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/signal"
	"github.com/ppiankov/credence/internal/worker"
)

// Pipeline wires the fetcher, extractor, the five analyzers and the
// aggregator into one reusable engine. Safe for concurrent use; the
// batch worker pool shares a single instance.
type Pipeline struct {
	fetcher   *Fetcher
	extractor *extract.Extractor

	synthetic  signal.Analyzer
	sourcing   signal.Analyzer
	linguistic signal.Analyzer
	temporal   signal.Analyzer
	structural signal.Analyzer

	aggregator *aggregate.Aggregator
	renderer   *Renderer
	summarizer *llm.Summarizer // nil when no provider is configured
	config     *model.Config
}

// New builds a pipeline from configuration. Remote classifiers and the
// corroboration check degrade to heuristics when their API keys are
// absent, so construction never fails; only a misconfigured LLM
// provider warns.
func New(cfg *model.Config) *Pipeline {
	infClient := inference.NewClient(cfg.Inference)
	corrClient := corroborate.NewClient(cfg.Corroboration)

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM provider disabled: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg.HTTP, limiter, store),
		extractor:  extract.NewExtractor(),
		synthetic:  signal.NewSyntheticText(infClient),
		sourcing:   signal.NewSourcing(infClient),
		linguistic: signal.NewLinguistic(infClient),
		temporal:   signal.NewTemporal(corrClient),
		structural: signal.NewStructural(),
		aggregator: aggregate.New(),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}
}

// Analyze runs the five analyzers over prepared content and aggregates
// their results. The analyzers run concurrently, each writing its own
// slot of the SignalSet; no analyzer can fail the run.
func (p *Pipeline) Analyze(ctx context.Context, content *model.Content) (*model.Report, error) {
	if strings.TrimSpace(content.Body) == "" {
		return nil, fmt.Errorf("no text to analyze")
	}

	var signals model.SignalSet
	var wg sync.WaitGroup
	run := func(a signal.Analyzer, slot *model.SignalResult) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*slot = a.Analyze(ctx, content)
		}()
	}
	run(p.synthetic, &signals.SyntheticText)
	run(p.sourcing, &signals.Sourcing)
	run(p.linguistic, &signals.Linguistic)
	run(p.temporal, &signals.Temporal)
	run(p.structural, &signals.Structural)
	wg.Wait()

	report := &model.Report{
		Subject:     model.SubjectFor(content),
		Source:      content.Source,
		AnalyzedAt:  time.Now().UTC(),
		Signals:     signals,
		Aggregation: p.aggregator.Combine(&signals, content),
	}

	// The briefing runs after aggregation and can only annotate the
	// report, never change it.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM briefing failed: %v\n", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// AnalyzeURL fetches a page, extracts its content and analyzes it.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*model.Report, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	content, err := p.extractor.Extract(fetched.HTML, fetched.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	report, err := p.Analyze(ctx, content)
	if err != nil {
		return nil, err
	}
	report.URL = fetched.FinalURL
	return report, nil
}

// AnalyzeText analyzes pasted text. An empty source is recorded as
// manual input so the provenance advice fires.
func (p *Pipeline) AnalyzeText(ctx context.Context, title, text, source string) (*model.Report, error) {
	content := &model.Content{
		Title:  title,
		Body:   text,
		Source: strings.TrimSpace(source),
	}
	if content.Source == "" {
		content.Source = model.ManualSource
	}
	return p.Analyze(ctx, content)
}

// RenderReport writes the report to the requested files and prints the
// terminal summary.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	// The briefing goes to its own file so generated prose never sits
	// inside the signal report.
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write LLM briefing: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Wrote LLM briefing: %s\n", llmPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

// Renderer exposes the report renderer for callers that format output
// without running an analysis.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
