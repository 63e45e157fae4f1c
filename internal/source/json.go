// Package source loads already-normalized email records for scanning.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mailsift/mailsift/internal/model"
)

// JSONFile reads Graph-style email dumps from disk. Both a bare array and a
// list response wrapped in a "value" field are accepted.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSON file source.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// FetchEmails decodes the file into email records. limit <= 0 means all.
func (f *JSONFile) FetchEmails(_ context.Context, limit int) ([]model.Email, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var emails []model.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		var wrapped struct {
			Value []model.Email `json:"value"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
		}
		emails = wrapped.Value
	}

	if limit > 0 && len(emails) > limit {
		emails = emails[:limit]
	}
	return emails, nil
}
