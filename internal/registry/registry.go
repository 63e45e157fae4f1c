// Package registry owns category definitions and user settings: read APIs,
// mutation APIs with best-effort persistence, and change notification.
package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/pattern"
	"github.com/mailsift/mailsift/internal/service"
)

// Change event types delivered to listeners.
const (
	EventTaskPreselectedCategories = "taskPreselectedCategories"
	EventCustomCategories          = "customCategories"
)

// ChangeEvent describes one settings or category mutation.
type ChangeEvent struct {
	Value    any
	Type     string
	Settings model.Settings
}

// Listener receives change events. A panicking listener is logged and does
// not affect other listeners or the mutation itself.
type Listener func(ChangeEvent)

// CategoryPatch is a shallow-merge update for a custom category. Nil fields
// are left untouched.
type CategoryPatch struct {
	Name       *string         `json:"name,omitempty"`
	Icon       *string         `json:"icon,omitempty"`
	Color      *string         `json:"color,omitempty"`
	Priority   *int            `json:"priority,omitempty"`
	Keywords   *model.Keywords `json:"keywords,omitempty"`
	Exclusions *[]string       `json:"exclusions,omitempty"`
}

// Registry holds built-in and custom categories plus user settings. All
// mutations recompile the pattern set synchronously before returning, so a
// classifier built from Patterns() never observes a partially stale set.
type Registry struct {
	store      service.SettingsStore
	patterns   *pattern.Set
	customIdx  map[string]int
	listeners  map[int]Listener
	builtins   []model.Category
	customs    []model.Category
	settings   model.Settings
	nextHandle int
	mu         sync.RWMutex
}

// New creates a registry seeded with the built-in defaults. store may be nil
// for a purely in-memory registry (tests, ad-hoc classification).
func New(store service.SettingsStore) *Registry {
	r := &Registry{
		store:     store,
		builtins:  DefaultCategories(),
		customIdx: make(map[string]int),
		listeners: make(map[int]Listener),
		settings:  model.DefaultSettings(),
	}
	r.patterns = pattern.Compile(r.mergedLocked())
	return r
}

// Load merges persisted settings and custom categories into the registry.
// Any read or parse failure is logged and the hard-coded defaults remain in
// effect; Load never fails.
func (r *Registry) Load(ctx context.Context) {
	if r.store == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if settings, err := r.store.LoadSettings(ctx); err != nil {
		slog.Warn("could not load persisted settings, using defaults", "error", err)
	} else {
		r.settings = settings
	}

	if customs, err := r.store.LoadCustomCategories(ctx); err != nil {
		slog.Warn("could not load custom categories", "error", err)
	} else {
		r.customs = customs
		r.customIdx = make(map[string]int, len(customs))
		for i := range r.customs {
			r.customs[i].IsCustom = true
			r.customIdx[r.customs[i].ID] = i
		}
	}

	r.patterns = pattern.Compile(r.mergedLocked())
	slog.Debug("registry loaded",
		"builtin_categories", len(r.builtins),
		"custom_categories", len(r.customs))
}

// Categories returns the merged category set: built-ins in registration
// order (replaced wholesale by a same-id custom category), then remaining
// custom categories. Callers must not mutate the result.
func (r *Registry) Categories() []model.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mergedLocked()
}

// mergedLocked assumes at least a read lock. Custom categories shadow
// built-ins with the same id: replace-wins, deterministically.
func (r *Registry) mergedLocked() []model.Category {
	merged := make([]model.Category, 0, len(r.builtins)+len(r.customs))
	for _, b := range r.builtins {
		if idx, ok := r.customIdx[b.ID]; ok {
			merged = append(merged, r.customs[idx])
			continue
		}
		merged = append(merged, b)
	}
	for _, c := range r.customs {
		if _, shadows := r.builtinIndex(c.ID); shadows {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func (r *Registry) builtinIndex(id string) (int, bool) {
	for i, b := range r.builtins {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Category returns a single category by id from either set.
func (r *Registry) Category(id string) (model.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.customIdx[id]; ok {
		return r.customs[idx], true
	}
	if idx, ok := r.builtinIndex(id); ok {
		return r.builtins[idx], true
	}
	return model.Category{}, false
}

// Patterns returns the current compiled pattern snapshot. The snapshot is
// immutable: a batch captures it once and is unaffected by later mutations.
func (r *Registry) Patterns() *pattern.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.patterns
}

// Settings returns a copy of the current settings.
func (r *Registry) Settings() model.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Clone()
}

// AddCustomCategory stores a new custom category under a fresh unique id and
// returns that id. Persistence failures are logged; the in-memory state
// remains authoritative.
func (r *Registry) AddCustomCategory(ctx context.Context, cat model.Category) string {
	r.mu.Lock()
	cat.ID = "custom_" + uuid.NewString()
	cat.IsCustom = true
	r.customs = append(r.customs, cat)
	r.customIdx[cat.ID] = len(r.customs) - 1
	r.patterns = pattern.Compile(r.mergedLocked())
	customs := append([]model.Category(nil), r.customs...)
	settings := r.settings.Clone()
	r.mu.Unlock()

	r.persistCustoms(ctx, customs)
	r.notify(ChangeEvent{Type: EventCustomCategories, Value: cat.ID, Settings: settings})
	slog.Debug("added custom category", "id", cat.ID, "name", cat.Name)
	return cat.ID
}

// UpdateCustomCategory shallow-merges patch into an existing custom
// category. Returns false if the id does not exist.
func (r *Registry) UpdateCustomCategory(ctx context.Context, id string, patch CategoryPatch) bool {
	r.mu.Lock()
	idx, ok := r.customIdx[id]
	if !ok {
		r.mu.Unlock()
		return false
	}

	cat := &r.customs[idx]
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Icon != nil {
		cat.Icon = *patch.Icon
	}
	if patch.Color != nil {
		cat.Color = *patch.Color
	}
	if patch.Priority != nil {
		cat.Priority = *patch.Priority
	}
	if patch.Keywords != nil {
		cat.Keywords = *patch.Keywords
	}
	if patch.Exclusions != nil {
		cat.Exclusions = *patch.Exclusions
	}

	r.patterns = pattern.Compile(r.mergedLocked())
	customs := append([]model.Category(nil), r.customs...)
	settings := r.settings.Clone()
	r.mu.Unlock()

	r.persistCustoms(ctx, customs)
	r.notify(ChangeEvent{Type: EventCustomCategories, Value: id, Settings: settings})
	return true
}

// DeleteCustomCategory removes a custom category. If the id appears in the
// task-preselected list it is removed there as well. Returns false if the id
// does not exist.
func (r *Registry) DeleteCustomCategory(ctx context.Context, id string) bool {
	r.mu.Lock()
	idx, ok := r.customIdx[id]
	if !ok {
		r.mu.Unlock()
		return false
	}

	r.customs = append(r.customs[:idx], r.customs[idx+1:]...)
	r.customIdx = make(map[string]int, len(r.customs))
	for i := range r.customs {
		r.customIdx[r.customs[i].ID] = i
	}

	settingsChanged := false
	kept := r.settings.TaskPreselectedCategories[:0]
	for _, pre := range r.settings.TaskPreselectedCategories {
		if pre == id {
			settingsChanged = true
			continue
		}
		kept = append(kept, pre)
	}
	r.settings.TaskPreselectedCategories = kept

	r.patterns = pattern.Compile(r.mergedLocked())
	customs := append([]model.Category(nil), r.customs...)
	settings := r.settings.Clone()
	r.mu.Unlock()

	r.persistCustoms(ctx, customs)
	if settingsChanged {
		r.persistSettings(ctx, settings)
	}
	r.notify(ChangeEvent{Type: EventCustomCategories, Value: id, Settings: settings})
	return true
}

// UpdateTaskPreselectedCategories replaces the preselection list. The input
// is defensively copied.
func (r *Registry) UpdateTaskPreselectedCategories(ctx context.Context, ids []string) {
	list := append([]string(nil), ids...)

	r.mu.Lock()
	r.settings.TaskPreselectedCategories = list
	settings := r.settings.Clone()
	r.mu.Unlock()

	r.persistSettings(ctx, settings)
	r.notify(ChangeEvent{
		Type:     EventTaskPreselectedCategories,
		Value:    append([]string(nil), list...),
		Settings: settings,
	})
}

// AddChangeListener registers a callback invoked on every settings or
// category mutation. The returned function unregisters it.
func (r *Registry) AddChangeListener(l Listener) func() {
	r.mu.Lock()
	handle := r.nextHandle
	r.nextHandle++
	r.listeners[handle] = l
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, handle)
		r.mu.Unlock()
	}
}

func (r *Registry) notify(ev ChangeEvent) {
	r.mu.RLock()
	listeners := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("change listener panicked", "panic", p, "event", ev.Type)
				}
			}()
			l(ev)
		}()
	}
}

func (r *Registry) persistCustoms(ctx context.Context, customs []model.Category) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveCustomCategories(ctx, customs); err != nil {
		common.LogError(err, "failed to persist custom categories", common.Fields{
			"count": len(customs),
		})
	}
}

func (r *Registry) persistSettings(ctx context.Context, settings model.Settings) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveSettings(ctx, settings); err != nil {
		common.LogError(err, "failed to persist settings", common.Fields{
			"preselected": len(settings.TaskPreselectedCategories),
		})
	}
}
