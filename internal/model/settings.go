package model

// Settings holds user configuration persisted alongside custom categories.
// The engine itself only reads TaskPreselectedCategories; the rest is carried
// for surrounding layers.
type Settings struct {
	CategoryExclusions        map[string][]string `json:"categoryExclusions,omitempty"`
	Preferences               map[string]any      `json:"preferences,omitempty"`
	ScanSettings              map[string]any      `json:"scanSettings,omitempty"`
	AutomationSettings        map[string]any      `json:"automationSettings,omitempty"`
	TaskPreselectedCategories []string            `json:"taskPreselectedCategories"`
	ActiveCategories          []string            `json:"activeCategories,omitempty"`
}

// DefaultSettings returns the hard-coded fallback used when persisted
// settings are missing or unreadable.
func DefaultSettings() Settings {
	return Settings{
		TaskPreselectedCategories: []string{"tasks", "meetings"},
		ActiveCategories:          nil, // nil means all categories active
		CategoryExclusions:        map[string][]string{},
	}
}

// Clone returns a deep enough copy for handing to listeners: slice and map
// headers are copied so callers cannot mutate registry state.
func (s Settings) Clone() Settings {
	out := s
	out.TaskPreselectedCategories = append([]string(nil), s.TaskPreselectedCategories...)
	out.ActiveCategories = append([]string(nil), s.ActiveCategories...)
	if s.CategoryExclusions != nil {
		out.CategoryExclusions = make(map[string][]string, len(s.CategoryExclusions))
		for k, v := range s.CategoryExclusions {
			out.CategoryExclusions[k] = append([]string(nil), v...)
		}
	}
	return out
}
