// Package pattern compiles raw category keyword lists into case-insensitive
// substring matchers safe against regex injection from user-supplied keywords.
package pattern

import (
	"log/slog"
	"regexp"

	"github.com/mailsift/mailsift/internal/model"
)

// Matcher tests whether one keyword phrase occurs anywhere in a text.
type Matcher struct {
	re      *regexp.Regexp
	Keyword string
	Tier    model.PatternTier
}

// Matches reports whether the keyword occurs anywhere in text. Substring
// semantics: "urgent" matches inside "urgently".
func (m *Matcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// CompiledCategory holds all matchers derived from one category definition.
type CompiledCategory struct {
	Category   model.Category
	Absolute   []Matcher
	Strong     []Matcher
	Weak       []Matcher
	Exclusions []Matcher
}

// Set is an immutable snapshot of compiled patterns for every category,
// built-in categories first, custom categories after, in registration order.
type Set struct {
	categories []CompiledCategory
}

// Compile builds a full pattern set from the given categories. Recompilation
// is always a full rebuild; a Set is never mutated after construction.
func Compile(categories []model.Category) *Set {
	compiled := make([]CompiledCategory, 0, len(categories))
	for _, cat := range categories {
		compiled = append(compiled, CompiledCategory{
			Category:   cat,
			Absolute:   compileTier(cat.Keywords.Absolute, model.TierAbsolute),
			Strong:     compileTier(cat.Keywords.Strong, model.TierStrong),
			Weak:       compileTier(cat.Keywords.Weak, model.TierWeak),
			Exclusions: compileTier(cat.Exclusions, model.TierExclusion),
		})
	}
	return &Set{categories: compiled}
}

// Categories returns the compiled categories in registration order.
// Callers must not mutate the returned slice.
func (s *Set) Categories() []CompiledCategory {
	return s.categories
}

// Len returns the number of compiled categories.
func (s *Set) Len() int {
	return len(s.categories)
}

func compileTier(keywords []string, tier model.PatternTier) []Matcher {
	matchers := make([]Matcher, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		// Every phrase is untrusted text: escape all metacharacters before
		// compiling so user keywords can never become live regex syntax.
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(kw))
		if err != nil {
			slog.Warn("skipping uncompilable keyword", "keyword", kw, "error", err)
			continue
		}
		matchers = append(matchers, Matcher{re: re, Keyword: kw, Tier: tier})
	}
	return matchers
}
