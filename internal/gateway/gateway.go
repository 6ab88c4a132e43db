// Package gateway is the only writer of durable state. It keeps an
// in-memory copy of every note and keeps it consistent with storage
// after each mutating call, so readers never see stale records.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"notedesk/internal/model"
	"notedesk/internal/storage"
)

var (
	ErrDuplicateCategory = errors.New("gateway: category already exists")
	ErrCategoryNotFound  = errors.New("gateway: category not found")
	ErrReservedCategory  = errors.New("gateway: reserved category")
	ErrStorage           = errors.New("gateway: storage failure")
)

type Gateway struct {
	repo   storage.Repository
	logger *slog.Logger
	notes  []model.Note
}

func New(repo storage.Repository, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{repo: repo, logger: logger}
}

// LoadAll repopulates the cache from storage, newest-first, with
// category and priority names joined and attachments resolved.
func (g *Gateway) LoadAll(ctx context.Context) []model.Note {
	records, err := g.repo.ListNotes(ctx)
	if err != nil {
		g.logger.Error("load notes", "err", err)
		g.notes = nil
		return nil
	}
	g.notes = make([]model.Note, 0, len(records))
	for _, rec := range records {
		g.notes = append(g.notes, fromStorage(rec))
	}
	return g.Notes()
}

// Notes returns a copy of the cache in load order.
func (g *Gateway) Notes() []model.Note {
	return append([]model.Note(nil), g.notes...)
}

// Add persists the note and prepends it to the cache, keeping the
// cache's newest-first load order. An ID is assigned when absent;
// unknown category/priority names fall back to the defaults.
func (g *Gateway) Add(ctx context.Context, note *model.Note) bool {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.Before(note.CreatedAt) {
		note.UpdatedAt = note.CreatedAt
	}
	if err := g.repo.CreateNote(ctx, toStorage(*note)); err != nil {
		g.logger.Error("add note", "id", note.ID, "err", err)
		return false
	}
	// Re-read so the cached copy carries the resolved catalog names.
	rec, err := g.repo.GetNote(ctx, note.ID)
	if err == nil {
		*note = fromStorage(rec)
	}
	g.notes = append([]model.Note{*note}, g.notes...)
	return true
}

// Update applies only the fields present in the patch. The attachment
// set is fully replaced when the patch carries one. Returns false for
// an unknown id or a storage failure.
func (g *Gateway) Update(ctx context.Context, id string, patch model.Patch) bool {
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	updated := g.notes[idx]
	updated.Attachments = append([]model.Attachment(nil), updated.Attachments...)
	patch.Apply(&updated)

	if err := g.repo.UpdateNote(ctx, toStorage(updated), patch.Attachments != nil); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.logger.Error("update note", "id", id, "err", err)
		}
		return false
	}
	rec, err := g.repo.GetNote(ctx, id)
	if err == nil {
		updated = fromStorage(rec)
	}
	g.notes[idx] = updated
	return true
}

// Delete removes the durable record (attachment rows cascade) and the
// cache entry. Attachment files on disk are the Coordinator's job.
func (g *Gateway) Delete(ctx context.Context, id string) bool {
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	if err := g.repo.DeleteNote(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.logger.Error("delete note", "id", id, "err", err)
			return false
		}
	}
	g.notes = append(g.notes[:idx], g.notes[idx+1:]...)
	return true
}

func (g *Gateway) GetByID(id string) (model.Note, bool) {
	idx := g.indexOf(id)
	if idx < 0 {
		return model.Note{}, false
	}
	return g.notes[idx], true
}

func (g *Gateway) AddCategory(ctx context.Context, name, color string) error {
	if model.IsReservedCategory(name) {
		return ErrReservedCategory
	}
	err := g.repo.CreateCategory(ctx, storage.Category{Name: name, Color: color, CreatedAt: time.Now()})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrDuplicate):
		return ErrDuplicateCategory
	default:
		g.logger.Error("add category", "name", name, "err", err)
		return ErrStorage
	}
}

// RenameCategory propagates to every referencing note through the
// foreign key; the cache is reloaded to pick the new name up.
func (g *Gateway) RenameCategory(ctx context.Context, oldName, newName string) error {
	if model.IsReservedCategory(oldName) || model.IsReservedCategory(newName) {
		return ErrReservedCategory
	}
	err := g.repo.RenameCategory(ctx, oldName, newName)
	switch {
	case err == nil:
		g.LoadAll(ctx)
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, storage.ErrDuplicate):
		return ErrDuplicateCategory
	default:
		g.logger.Error("rename category", "old", oldName, "new", newName, "err", err)
		return ErrStorage
	}
}

// DeleteCategory never cascades to notes: referencing notes keep their
// record and fall back to the default category.
func (g *Gateway) DeleteCategory(ctx context.Context, name string) error {
	if model.IsReservedCategory(name) {
		return ErrReservedCategory
	}
	err := g.repo.DeleteCategory(ctx, name)
	switch {
	case err == nil:
		g.LoadAll(ctx)
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrCategoryNotFound
	default:
		g.logger.Error("delete category", "name", name, "err", err)
		return ErrStorage
	}
}

func (g *Gateway) Categories(ctx context.Context) []model.Category {
	records, err := g.repo.ListCategories(ctx)
	if err != nil {
		g.logger.Error("list categories", "err", err)
		return nil
	}
	out := make([]model.Category, 0, len(records))
	for _, rec := range records {
		out = append(out, model.Category(rec))
	}
	return out
}

func (g *Gateway) Priorities(ctx context.Context) []model.PriorityInfo {
	records, err := g.repo.ListPriorities(ctx)
	if err != nil {
		g.logger.Error("list priorities", "err", err)
		return nil
	}
	out := make([]model.PriorityInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, model.PriorityInfo(rec))
	}
	return out
}

// Statistics aggregates over the cache; no storage round-trip.
func (g *Gateway) Statistics() model.Stats {
	return model.Aggregate(g.notes)
}

func (g *Gateway) indexOf(id string) int {
	for i, note := range g.notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}
