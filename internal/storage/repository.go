// Package storage owns the durable entry and favorite collections. The
// two collections live as JSON array blobs under stable keys in a
// key-value store; every operation reads the current blob, applies its
// change and writes the whole blob back, so a failed write never leaves
// partial state behind.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rapou7/YonkiStats/internal/core"
	"github.com/Rapou7/YonkiStats/internal/kv"
)

const (
	entriesKey   = "@yonkistats_entries"
	favoritesKey = "@yonkistats_entries_favorites"
)

// Snapshot is the import/export document: both collections as of one
// point in time.
type Snapshot struct {
	Entries   []core.Entry `json:"entries"`
	Favorites []core.Entry `json:"favorites"`
}

// Repository implements the entry and favorites contract over a
// key-value store. It keeps no in-memory state between calls.
type Repository struct {
	store kv.Store
	now   func() time.Time
}

// NewRepository returns a repository persisting through store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

// List returns all entries. Order is whatever was persisted; callers
// sort as needed.
func (r *Repository) List(ctx context.Context) ([]core.Entry, error) {
	return r.load(ctx, entriesKey)
}

// Add assigns a fresh id, prepends the entry to the collection and
// persists it. The stored collection is untouched when the write fails.
func (r *Repository) Add(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate entry: %w", err)
	}

	entries, err := r.load(ctx, entriesKey)
	if err != nil {
		return core.Entry{}, err
	}

	e.ID = uuid.NewString()
	updated := append([]core.Entry{e}, entries...)
	if err := r.save(ctx, entriesKey, updated); err != nil {
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"category", e.Category,
		"amount_spent", e.AmountSpent,
		"date", e.Date)
	return e, nil
}

// Update replaces the stored entry with a matching id. An unmatched id
// is a no-op: the write still succeeds and the collection is unchanged.
func (r *Repository) Update(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate entry: %w", err)
	}

	entries, err := r.load(ctx, entriesKey)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
		}
	}
	return r.save(ctx, entriesKey, entries)
}

// Remove deletes the entry with the matching id. An absent id is a
// no-op, not an error.
func (r *Repository) Remove(ctx context.Context, id string) error {
	entries, err := r.load(ctx, entriesKey)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return r.save(ctx, entriesKey, kept)
}

// RemoveAll drops the whole entries collection.
func (r *Repository) RemoveAll(ctx context.Context) error {
	if err := r.store.Remove(ctx, entriesKey); err != nil {
		return fmt.Errorf("clear entries: %w: %v", core.ErrPersistence, err)
	}
	slog.InfoContext(ctx, "Entries cleared")
	return nil
}

// ListFavorites returns the favorites collection.
func (r *Repository) ListFavorites(ctx context.Context) ([]core.Entry, error) {
	return r.load(ctx, favoritesKey)
}

// AddFavorite stores the entry's field values as a reusable template.
// The id is freshly assigned and the date stamped at save time purely
// for shape compatibility; neither carries meaning on a favorite. Fails
// with ErrCapacityExceeded, without writing, once MaxFavorites exist.
func (r *Repository) AddFavorite(ctx context.Context, e core.Entry) (core.Entry, error) {
	e.Date = r.now().UTC().Format(time.RFC3339)
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate favorite: %w", err)
	}

	favorites, err := r.load(ctx, favoritesKey)
	if err != nil {
		return core.Entry{}, err
	}
	if len(favorites) >= core.MaxFavorites {
		return core.Entry{}, fmt.Errorf("add favorite: %w", core.ErrCapacityExceeded)
	}

	e.ID = uuid.NewString()
	if err := r.save(ctx, favoritesKey, append(favorites, e)); err != nil {
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Favorite saved", "id", e.ID, "type", e.Type, "category", e.Category)
	return e, nil
}

// RemoveFavorite deletes the favorite with the matching id; absent ids
// are a no-op.
func (r *Repository) RemoveFavorite(ctx context.Context, id string) error {
	favorites, err := r.load(ctx, favoritesKey)
	if err != nil {
		return err
	}
	kept := favorites[:0]
	for _, f := range favorites {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return r.save(ctx, favoritesKey, kept)
}

// ExportAll snapshots both collections.
func (r *Repository) ExportAll(ctx context.Context) (Snapshot, error) {
	entries, err := r.load(ctx, entriesKey)
	if err != nil {
		return Snapshot{}, err
	}
	favorites, err := r.load(ctx, favoritesKey)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Entries: entries, Favorites: favorites}, nil
}

// ImportAll validates the raw import document and, only when every
// record in both sequences passes, overwrites both collections. Import
// is destructive, never additive. The two writes are independent: when
// the favorites write fails after the entries write succeeded there is
// no rollback, a limitation the caller must be aware of.
func (r *Repository) ImportAll(ctx context.Context, payload []byte) error {
	snapshot, err := validateImport(payload)
	if err != nil {
		return err
	}

	if err := r.save(ctx, entriesKey, snapshot.Entries); err != nil {
		return err
	}
	if err := r.save(ctx, favoritesKey, snapshot.Favorites); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Import completed",
		"entries", len(snapshot.Entries),
		"favorites", len(snapshot.Favorites))
	return nil
}

func (r *Repository) load(ctx context.Context, key string) ([]core.Entry, error) {
	value, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w: %v", key, core.ErrPersistence, err)
	}
	if !ok {
		return []core.Entry{}, nil
	}
	var entries []core.Entry
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("decode %q: %w: %v", key, core.ErrPersistence, err)
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	return entries, nil
}

func (r *Repository) save(ctx context.Context, key string, entries []core.Entry) error {
	if entries == nil {
		entries = []core.Entry{}
	}
	value, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(value)); err != nil {
		return fmt.Errorf("persist %q: %w: %v", key, core.ErrPersistence, err)
	}
	return nil
}
