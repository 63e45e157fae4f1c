// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/mailsift/mailsift/internal/model"
)

// SettingsStore is the persistence collaborator for user settings and custom
// category definitions. All operations are best-effort from the registry's
// point of view: load failures fall back to defaults, save failures are
// logged and swallowed.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
	LoadCustomCategories(ctx context.Context) ([]model.Category, error)
	SaveCustomCategories(ctx context.Context, categories []model.Category) error
	Close() error
}

// EmailSource produces already-normalized email records for scanning.
type EmailSource interface {
	FetchEmails(ctx context.Context, limit int) ([]model.Email, error)
}
