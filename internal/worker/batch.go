// Package worker runs batches of URL analyses on a bounded pool with
// per-domain politeness limits.
package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// URLAnalyzer runs the full analysis for one URL.
type URLAnalyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*model.Report, error)
}

// AnalyzeJob scores a single URL from a batch.
type AnalyzeJob struct {
	URL      string
	Analyzer URLAnalyzer
	Limiter  *Limiter
}

// Execute runs the analysis. A failed rate-limit wait is reported like
// any other failure so the batch keeps its one-result-per-URL shape.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &AnalyzeResult{URL: j.URL, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}
	report, err := j.Analyzer.AnalyzeURL(ctx, j.URL)
	if err != nil {
		return &AnalyzeResult{URL: j.URL, Error: err}
	}
	return &AnalyzeResult{URL: j.URL, Report: report}
}

// AnalyzeResult pairs a batch URL with its report or its failure.
type AnalyzeResult struct {
	URL    string
	Report *model.Report
	Error  error
}

// GetError returns the failure, if any.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor fans a list of URLs out over a worker pool.
type BatchProcessor struct {
	analyzer    URLAnalyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A requestsPerSecond of
// zero or less disables batch-level throttling; the fetcher inside the
// analyzer still applies its own.
func NewBatchProcessor(analyzer URLAnalyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessURLs analyzes the URLs concurrently and returns one result
// per URL, in completion order. Cancelling the context aborts jobs
// still in flight; their results are dropped.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*AnalyzeResult {
	if len(urls) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, url := range urls {
		pool.Submit(&AnalyzeJob{
			URL:      url,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads URLs from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// Summary tallies a finished batch by confidence band.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	ByBand    map[model.Level]int
}

// Summarize counts results per band plus failures.
func Summarize(results []*AnalyzeResult) Summary {
	s := Summary{
		Total:  len(results),
		ByBand: make(map[model.Level]int),
	}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.ByBand[r.Report.Aggregation.ConfidenceBand]++
	}
	return s
}

// ReadURLsFromFile reads one URL per line, skipping blank lines and
// lines starting with #, and drops duplicates.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
