package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/model"
)

// Blob keys for the two persisted JSON documents.
const (
	keyCategorySettings = "category_settings"
	keyCustomCategories = "custom_categories"
)

// LoadSettings reads the persisted category settings blob.
func (s *SQLiteStore) LoadSettings(ctx context.Context) (model.Settings, error) {
	raw, err := s.loadBlob(ctx, keyCategorySettings)
	if err != nil {
		return model.Settings{}, err
	}

	var settings model.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	slog.Debug("loaded settings", "preselected", len(settings.TaskPreselectedCategories))
	return settings, nil
}

// SaveSettings writes the category settings blob.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.saveBlob(ctx, keyCategorySettings, raw)
}

// LoadCustomCategories reads the persisted custom category definitions, in
// their original registration order.
func (s *SQLiteStore) LoadCustomCategories(ctx context.Context) ([]model.Category, error) {
	raw, err := s.loadBlob(ctx, keyCustomCategories)
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse custom categories: %w", err)
	}

	slog.Debug("loaded custom categories", "count", len(categories))
	return categories, nil
}

// SaveCustomCategories writes the custom category definitions blob.
func (s *SQLiteStore) SaveCustomCategories(ctx context.Context, categories []model.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode custom categories: %w", err)
	}
	return s.saveBlob(ctx, keyCustomCategories, raw)
}

func (s *SQLiteStore) loadBlob(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteStore) saveBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
