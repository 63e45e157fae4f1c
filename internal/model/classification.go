// Package model defines the core domain models used throughout the application.
package model

// PatternTier identifies which keyword tier a matched pattern came from.
type PatternTier string

// Pattern tier constants.
const (
	TierAbsolute  PatternTier = "absolute"
	TierStrong    PatternTier = "strong"
	TierWeak      PatternTier = "weak"
	TierExclusion PatternTier = "exclusion"
)

// MatchedPattern records a single pattern hit for auditing and analytics.
type MatchedPattern struct {
	Tier    PatternTier `json:"tier"`
	Keyword string      `json:"keyword"`
	Weight  int         `json:"weight"`
}

// ClassificationResult is the outcome of classifying one email.
type ClassificationResult struct {
	Category        string           `json:"category"`
	Reason          string           `json:"reason"`
	MatchedPatterns []MatchedPattern `json:"matchedPatterns,omitempty"`
	Score           int              `json:"score"`
	Confidence      float64          `json:"confidence"`
	HasAbsolute     bool             `json:"hasAbsolute"`
	IsSpam          bool             `json:"isSpam"`
	IsCC            bool             `json:"isCC"`
	IsCustom        bool             `json:"isCustom"`
}

// ScannedEmail pairs an email with its classification after a batch pass.
// Error carries the per-email failure marker when classification could not
// complete; the email is bucketed under "other" in that case.
type ScannedEmail struct {
	Email  Email                `json:"email"`
	Result ClassificationResult `json:"result"`
	Error  string               `json:"error,omitempty"`
}
