package model

// Reserved output category ids. These are never persisted as category
// definitions; they only appear as classification results.
const (
	CategoryOther = "other"
	CategorySpam  = "spam"
)

// Keywords holds the three confidence tiers of evidence for a category.
type Keywords struct {
	Absolute []string `json:"absolute,omitempty"`
	Strong   []string `json:"strong,omitempty"`
	Weak     []string `json:"weak,omitempty"`
}

// Category represents a classification category, built-in or user-defined.
type Category struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon,omitempty"`
	Color      string   `json:"color,omitempty"`
	Keywords   Keywords `json:"keywords"`
	Exclusions []string `json:"exclusions,omitempty"`
	Priority   int      `json:"priority"`
	IsCustom   bool     `json:"isCustom,omitempty"`
}

// IsReserved reports whether an id is one of the reserved output categories.
func IsReserved(id string) bool {
	return id == CategoryOther || id == CategorySpam
}
