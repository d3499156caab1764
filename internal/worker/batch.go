package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

// maxLineBytes bounds one JSONL headline record
const maxLineBytes = 1 << 20

// Extractor turns a headline into an event. *pipeline.Pipeline satisfies it.
type Extractor interface {
	Extract(ctx context.Context, h model.Headline) *model.CapitalEvent
}

// ExtractJob extracts one headline
type ExtractJob struct {
	Index     int
	Headline  model.Headline
	Extractor Extractor
	Limiter   *Limiter
}

// Execute waits for the publisher host's turn, then extracts
func (j *ExtractJob) Execute(ctx context.Context) Result {
	res := &ExtractResult{Index: j.Index, Headline: j.Headline}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Headline.URL); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}
	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	res.Event = j.Extractor.Extract(ctx, j.Headline)
	return res
}

// ExtractResult is the outcome for one headline
type ExtractResult struct {
	Index    int // Position in the input
	Headline model.Headline
	Event    *model.CapitalEvent
	Error    error
}

// GetError returns the job error
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many headlines concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a processor. requestsPerSecond <= 0 disables
// per-host pacing.
func NewBatchProcessor(extractor Extractor, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessHeadlines extracts every headline and returns results in input order
func (b *BatchProcessor) ProcessHeadlines(ctx context.Context, headlines []model.Headline) []*ExtractResult {
	if len(headlines) == 0 {
		return []*ExtractResult{}
	}

	jobs := make([]Job, len(headlines))
	for i, h := range headlines {
		jobs[i] = &ExtractJob{
			Index:     i,
			Headline:  h,
			Extractor: b.extractor,
			Limiter:   b.limiter,
		}
	}

	pool := NewPool(ctx, b.concurrency)
	results := pool.Process(jobs)

	out := make([]*ExtractResult, 0, len(headlines))
	done := make(map[int]bool, len(results))
	for _, r := range results {
		er := r.(*ExtractResult)
		done[er.Index] = true
		out = append(out, er)
	}

	// Jobs dropped by cancellation still get a result
	if len(out) < len(headlines) {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		for i, h := range headlines {
			if !done[i] {
				out = append(out, &ExtractResult{Index: i, Headline: h, Error: err})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads a JSONL headline file and extracts it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExtractResult, error) {
	headlines, err := ReadHeadlinesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read headlines: %w", err)
	}
	return b.ProcessHeadlines(ctx, headlines), nil
}

// ReadHeadlinesFromFile reads one JSON headline per line. Blank lines and
// lines starting with # are skipped; repeated publisher+url pairs are
// dropped after the first.
func ReadHeadlinesFromFile(filePath string) ([]model.Headline, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var headlines []model.Headline
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var h model.Headline
		if err := json.Unmarshal([]byte(line), &h); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := h.Publisher + "|" + h.URL
		if h.URL != "" && seen[key] {
			continue
		}
		seen[key] = true
		headlines = append(headlines, h)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return headlines, nil
}
