// Package scanner implements the batch categorization pass over email lists.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mailsift/mailsift/internal/classify"
	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/pattern"
)

// Scanner behavior constants.
const (
	// DefaultProgressEvery is the progress reporting cadence in emails.
	DefaultProgressEvery = 10
	// HighConfidenceThreshold marks results counted as high confidence.
	HighConfidenceThreshold = 0.8
	// topPatternLimit caps the top-pattern report.
	topPatternLimit = 10
)

// ProgressFunc receives advisory progress updates. It is optional: absence
// never changes scan behavior. Updates are monotone in processed count.
type ProgressFunc func(processed, total int)

// Options configures a batch scan.
type Options struct {
	// Progress is the optional side-channel progress callback.
	Progress ProgressFunc
	// ProgressEvery bounds the callback cadence; defaults to DefaultProgressEvery.
	ProgressEvery int
	// Workers sets the number of parallel classification workers. Values
	// below 2 mean a sequential scan. Classification is a pure function of
	// (email, patterns), so parallelism cannot change any result.
	Workers int
}

// PatternCount is one entry of the top-pattern frequency report.
type PatternCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Summary aggregates a completed batch scan.
type Summary struct {
	Breakdown         map[string]int `json:"breakdown"`
	TopPatterns       []PatternCount `json:"topPatterns,omitempty"`
	Total             int            `json:"total"`
	Categorized       int            `json:"categorized"`
	HighConfidence    int            `json:"highConfidence"`
	AbsoluteMatches   int            `json:"absoluteMatches"`
	CategoriesUsed    int            `json:"categoriesUsed"`
	Errors            int            `json:"errors"`
	AverageConfidence float64        `json:"averageConfidence"`
	AverageScore      float64        `json:"averageScore"`
	Duration          time.Duration  `json:"duration"`
}

// Scanner classifies a list of emails against a pattern snapshot captured at
// construction. Registry mutations after that point are not observed.
type Scanner struct {
	classifier *classify.Classifier
	patterns   *pattern.Set
	opts       Options
}

// New creates a scanner over the given pattern snapshot.
func New(patterns *pattern.Set, opts Options) *Scanner {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	return &Scanner{
		classifier: classify.New(patterns),
		patterns:   patterns,
		opts:       opts,
	}
}

// Scan classifies every email in order and returns the enriched records plus
// aggregate statistics. A failure on one email buckets it under "other" with
// an error marker and never aborts the batch. The returned slice is 1:1 with
// the input, in input order.
func (s *Scanner) Scan(ctx context.Context, emails []model.Email) ([]model.ScannedEmail, *Summary, error) {
	start := time.Now()
	scanned := make([]model.ScannedEmail, len(emails))

	if s.opts.Workers > 1 {
		if err := s.scanParallel(ctx, emails, scanned); err != nil {
			return nil, nil, err
		}
	} else {
		progress := newProgressReporter(s.opts, len(emails))
		for i := range emails {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
			scanned[i] = s.classifyOne(&emails[i])
			progress.advance()
		}
	}

	summary := s.summarize(scanned)
	summary.Duration = time.Since(start)

	slog.Debug("batch scan complete",
		"total", summary.Total,
		"categorized", summary.Categorized,
		"errors", summary.Errors,
		"duration", summary.Duration)

	return scanned, summary, nil
}

// scanParallel distributes indices over a worker pool. Results land at their
// input index so order and 1:1 correspondence are preserved.
func (s *Scanner) scanParallel(ctx context.Context, emails []model.Email, scanned []model.ScannedEmail) error {
	workChan := make(chan int, len(emails))
	for i := range emails {
		workChan <- i
	}
	close(workChan)

	progress := newProgressReporter(s.opts, len(emails))

	var wg sync.WaitGroup
	wg.Add(s.opts.Workers)
	for w := 0; w < s.opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for i := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				scanned[i] = s.classifyOne(&emails[i])
				progress.advance()
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}

// classifyOne classifies a single email, downgrading any failure to an
// "other" result with an error marker.
func (s *Scanner) classifyOne(email *model.Email) (out model.ScannedEmail) {
	out.Email = *email
	defer func() {
		if p := recover(); p != nil {
			out.Result = model.ClassificationResult{
				Category: model.CategoryOther,
				Reason:   "classification error",
			}
			out.Error = fmt.Sprintf("panic: %v", p)
			slog.Error("classification panicked", "email_id", email.ID, "panic", p)
		}
	}()

	result, err := s.classifier.Classify(email)
	out.Result = result
	if err != nil {
		out.Result.Category = model.CategoryOther
		out.Error = err.Error()
	}
	return out
}

// summarize folds scanned emails into aggregate statistics. Iteration is in
// input order but every statistic is order-independent, so re-running the
// same input against the same patterns reproduces identical numbers.
func (s *Scanner) summarize(scanned []model.ScannedEmail) *Summary {
	summary := &Summary{
		Total:     len(scanned),
		Breakdown: make(map[string]int),
	}

	// Pre-seed buckets so the breakdown shape does not depend on which
	// categories happened to win.
	for _, compiled := range s.patterns.Categories() {
		summary.Breakdown[compiled.Category.ID] = 0
	}
	summary.Breakdown[model.CategoryOther] = 0
	summary.Breakdown[model.CategorySpam] = 0

	patternHits := make(map[string]int)
	var confidenceSum, scoreSum float64

	for i := range scanned {
		res := &scanned[i].Result
		summary.Breakdown[res.Category]++

		confidenceSum += res.Confidence
		scoreSum += float64(res.Score)

		if res.Confidence >= HighConfidenceThreshold {
			summary.HighConfidence++
		}
		if res.HasAbsolute {
			summary.AbsoluteMatches++
		}
		if scanned[i].Error != "" {
			summary.Errors++
		}
		for _, mp := range res.MatchedPatterns {
			if mp.Tier != model.TierExclusion {
				patternHits[mp.Keyword]++
			}
		}
	}

	for id, count := range summary.Breakdown {
		if count == 0 {
			continue
		}
		summary.CategoriesUsed++
		if id != model.CategoryOther {
			summary.Categorized += count
		}
	}

	if summary.Total > 0 {
		confidenceTotal := float64(summary.Total)
		summary.AverageConfidence = confidenceSum / confidenceTotal
		summary.AverageScore = scoreSum / confidenceTotal
	}

	summary.TopPatterns = topPatterns(patternHits, topPatternLimit)
	return summary
}

// topPatterns returns the most frequently matched keywords, ordered by count
// descending then keyword ascending for determinism.
func topPatterns(hits map[string]int, limit int) []PatternCount {
	counts := make([]PatternCount, 0, len(hits))
	for kw, n := range hits {
		counts = append(counts, PatternCount{Keyword: kw, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Keyword < counts[j].Keyword
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// progressReporter delivers monotone progress updates at a bounded cadence.
type progressReporter struct {
	fn        ProgressFunc
	total     int
	every     int
	processed int
	reported  int
	mu        sync.Mutex
}

func newProgressReporter(opts Options, total int) *progressReporter {
	return &progressReporter{fn: opts.Progress, total: total, every: opts.ProgressEvery}
}

func (p *progressReporter) advance() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	n := p.processed
	due := n == p.total || n%p.every == 0
	if due && n > p.reported {
		// Reporting under the lock keeps updates strictly monotone even
		// when workers finish out of order.
		p.reported = n
		p.fn(n, p.total)
	}
}
