package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mailsift/mailsift/internal/config"
	"github.com/mailsift/mailsift/internal/registry"
	"github.com/mailsift/mailsift/internal/storage"
)

// defaultDBPath returns the database location, honoring config and XDG-ish
// defaults.
func defaultDBPath() string {
	if path := viper.GetString("database.path"); path != "" {
		return config.ExpandPath(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mailsift.db"
	}
	return filepath.Join(home, ".local", "share", "mailsift", "mailsift.db")
}

// openRegistry builds the category registry, backed by SQLite when the
// database can be opened. Persistence problems degrade to an in-memory
// registry rather than failing the command.
func openRegistry(ctx context.Context) (*registry.Registry, func()) {
	store, err := storage.NewSQLiteStore(defaultDBPath())
	if err != nil {
		slog.Warn("persistence unavailable, running in-memory", "error", err)
		return registry.New(nil), func() {}
	}

	if err := store.Migrate(ctx); err != nil {
		slog.Warn("migration failed, running in-memory", "error", err)
		_ = store.Close()
		return registry.New(nil), func() {}
	}

	reg := registry.New(store)
	reg.Load(ctx)
	return reg, func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}
}

// pluralize is a tiny display helper.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
