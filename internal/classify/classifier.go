// Package classify implements the weighted keyword classification engine.
package classify

import (
	"fmt"
	"math"
	"sort"

	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/pattern"
)

// Scoring weights and thresholds. Kept as named constants so they can be
// tuned and tested independently of the algorithm's structure.
const (
	// WeightAbsolute is added for each matching absolute-tier pattern.
	WeightAbsolute = 80
	// WeightStrong is added for each matching strong-tier pattern.
	WeightStrong = 50
	// WeightWeak is added for each matching weak-tier pattern.
	WeightWeak = 20
	// WeightExclusion is recorded on the audit trail when an exclusion fires.
	// It is never accumulated; an exclusion zeroes the category outright.
	WeightExclusion = -100
	// MaxScore is the clamp ceiling for a category score.
	MaxScore = 100
	// ScoreThreshold is the minimum best score required to avoid the
	// "other" fallback.
	ScoreThreshold = 10
	// SpamScore and SpamConfidence are reported on the spam short-circuit.
	SpamScore      = 100
	SpamConfidence = 0.9
)

// Result reason strings.
const (
	ReasonAbsoluteMatch = "absolute match"
	ReasonExcluded      = "excluded by pattern"
	ReasonInvalidEmail  = "invalid email"
	ReasonNoMatch       = "no category matched"
	ReasonSpam          = "spam heuristic matched"
)

// Classifier scores emails against a compiled pattern set. It is a pure
// function of (email, patterns): safe for concurrent use.
type Classifier struct {
	patterns *pattern.Set
	spam     *SpamDetector
	cc       *CCDetector
}

// New creates a classifier over the given pattern snapshot with default
// spam and CC heuristics.
func New(patterns *pattern.Set) *Classifier {
	return &Classifier{
		patterns: patterns,
		spam:     NewSpamDetector(),
		cc:       NewCCDetector(),
	}
}

// Classify assigns the best-matching category to one email.
//
// Spam detection runs first and short-circuits category scoring entirely.
// An invalid email yields the "other" sentinel along with ErrInvalidEmail so
// batch callers can mark the record; the result is still usable as-is.
func (c *Classifier) Classify(email *model.Email) (model.ClassificationResult, error) {
	if email == nil || email.ID == "" {
		return model.ClassificationResult{
			Category: model.CategoryOther,
			Reason:   ReasonInvalidEmail,
		}, common.ErrInvalidEmail
	}

	text := email.CombinedText()

	if c.spam.Check(email, text) {
		return model.ClassificationResult{
			Category:   model.CategorySpam,
			Score:      SpamScore,
			Confidence: SpamConfidence,
			Reason:     ReasonSpam,
			IsSpam:     true,
			IsCC:       c.cc.Check(email),
		}, nil
	}

	isCC := c.cc.Check(email)

	type candidate struct {
		result model.ClassificationResult
	}
	var candidates []candidate
	for _, compiled := range c.patterns.Categories() {
		scored := scoreCategory(compiled, text)
		if scored.Score > 0 {
			candidates = append(candidates, candidate{result: scored})
		}
	}

	// Stable sort: on exact score ties the first-registered category wins.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].result.Score > candidates[j].result.Score
	})

	if len(candidates) == 0 || candidates[0].result.Score < ScoreThreshold {
		return model.ClassificationResult{
			Category: model.CategoryOther,
			Reason:   ReasonNoMatch,
			IsCC:     isCC,
		}, nil
	}

	best := candidates[0].result
	best.Confidence = math.Min(float64(best.Score)/float64(MaxScore), 1)
	best.IsCC = isCC
	return best, nil
}

// scoreCategory evaluates one compiled category against the combined text.
func scoreCategory(compiled pattern.CompiledCategory, text string) model.ClassificationResult {
	result := model.ClassificationResult{
		Category: compiled.Category.ID,
		IsCustom: compiled.Category.IsCustom,
	}

	// Exclusion veto: any hit zeroes the category and short-circuits. The
	// exclusion is recorded on the audit trail only; nothing is subtracted
	// from other categories.
	for i := range compiled.Exclusions {
		m := &compiled.Exclusions[i]
		if m.Matches(text) {
			result.Reason = ReasonExcluded
			result.MatchedPatterns = []model.MatchedPattern{{
				Tier:    model.TierExclusion,
				Keyword: m.Keyword,
				Weight:  WeightExclusion,
			}}
			return result
		}
	}

	score := 0
	score += accumulate(compiled.Absolute, text, WeightAbsolute, &result)
	score += accumulate(compiled.Strong, text, WeightStrong, &result)
	score += accumulate(compiled.Weak, text, WeightWeak, &result)

	// Priority bonus is flat per category, applied once, and only when the
	// category has actual keyword evidence. Without that guard a silent
	// high-priority category would outscore the fallback threshold on the
	// bonus alone.
	if len(result.MatchedPatterns) > 0 {
		score += int(math.Round(float64(compiled.Category.Priority) / 10))
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	result.Score = score

	if result.HasAbsolute {
		result.Reason = ReasonAbsoluteMatch
	} else {
		result.Reason = fmt.Sprintf("%d patterns found", len(result.MatchedPatterns))
	}
	return result
}

func accumulate(matchers []pattern.Matcher, text string, weight int, result *model.ClassificationResult) int {
	score := 0
	for i := range matchers {
		m := &matchers[i]
		if !m.Matches(text) {
			continue
		}
		score += weight
		if m.Tier == model.TierAbsolute {
			result.HasAbsolute = true
		}
		result.MatchedPatterns = append(result.MatchedPatterns, model.MatchedPattern{
			Tier:    m.Tier,
			Keyword: m.Keyword,
			Weight:  weight,
		})
	}
	return score
}
