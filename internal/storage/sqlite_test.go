package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "mailsift.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

func TestNewSQLiteStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "mailsift.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Migrate(context.Background()))
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	// A second run must be a no-op, not a failure.
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestSettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := model.Settings{
		TaskPreselectedCategories: []string{"tasks", "meetings", "custom_abc"},
	}
	require.NoError(t, store.SaveSettings(ctx, settings))

	loaded, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettings_NotFoundWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadSettings(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSettings_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSettings(ctx, model.Settings{
		TaskPreselectedCategories: []string{"tasks"},
	}))
	require.NoError(t, store.SaveSettings(ctx, model.Settings{
		TaskPreselectedCategories: []string{"finance"},
	}))

	loaded, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"finance"}, loaded.TaskPreselectedCategories)
}

func TestCustomCategories_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	categories := []model.Category{
		{
			ID:       "custom_one",
			Name:     "Recrutement",
			Icon:     "💼",
			Priority: 70,
			IsCustom: true,
			Keywords: model.Keywords{
				Absolute: []string{"entretien d'embauche"},
				Strong:   []string{"candidature", "cv"},
				Weak:     []string{"poste"},
			},
			Exclusions: []string{"newsletter"},
		},
		{
			ID:       "custom_two",
			Name:     "Voyages",
			Priority: 45,
			Keywords: model.Keywords{Absolute: []string{"réservation confirmée"}},
		},
	}
	require.NoError(t, store.SaveCustomCategories(ctx, categories))

	loaded, err := store.LoadCustomCategories(ctx)
	require.NoError(t, err)
	// Registration order survives the round trip.
	assert.Equal(t, categories, loaded)
}

func TestCustomCategories_NotFoundWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadCustomCategories(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mailsift.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveCustomCategories(ctx, []model.Category{
		{ID: "custom_kept", Name: "Kept", Priority: 50},
	}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(ctx))

	loaded, err := reopened.LoadCustomCategories(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "custom_kept", loaded[0].ID)
}
