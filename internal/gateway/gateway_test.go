package gateway

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"notedesk/internal/model"
	"notedesk/internal/storage"
)

func setupGateway(t *testing.T) *Gateway {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gateway-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := storage.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	gw := New(repo, nil)
	gw.LoadAll(context.Background())
	return gw
}

func addNote(t *testing.T, gw *Gateway, title string) model.Note {
	t.Helper()
	note := model.Note{Title: title, Category: "Work", Priority: model.PriorityMedium}
	if !gw.Add(context.Background(), &note) {
		t.Fatalf("add note %q failed", title)
	}
	return note
}

func TestAddAssignsIDAndCaches(t *testing.T) {
	gw := setupGateway(t)
	note := addNote(t, gw, "First note")

	if note.ID == "" {
		t.Fatal("expected generated id")
	}
	cached, ok := gw.GetByID(note.ID)
	if !ok || cached.Title != "First note" {
		t.Fatalf("note missing from cache: %#v", cached)
	}
	if cached.Category != "Work" || cached.Priority != model.PriorityMedium {
		t.Fatalf("catalog names not resolved: %#v", cached)
	}
}

func TestCacheOrderIsNewestFirst(t *testing.T) {
	gw := setupGateway(t)
	addNote(t, gw, "older")
	second := addNote(t, gw, "newer")

	notes := gw.Notes()
	if len(notes) != 2 || notes[0].ID != second.ID {
		t.Fatalf("expected newest-first cache, got: %#v", notes)
	}
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	gw := setupGateway(t)
	note := addNote(t, gw, "Patch target")
	before, _ := gw.GetByID(note.ID)

	if !gw.Update(context.Background(), note.ID, model.Patch{Title: model.String("Patched")}) {
		t.Fatal("update failed")
	}
	after, _ := gw.GetByID(note.ID)
	if after.Title != "Patched" {
		t.Fatalf("title not patched: %q", after.Title)
	}
	if after.Content != before.Content || after.Category != before.Category {
		t.Fatalf("untouched fields changed: %#v", after)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatal("updated_at should be strictly greater after update")
	}
}

func TestUpdateUnknownIDReturnsFalse(t *testing.T) {
	gw := setupGateway(t)
	if gw.Update(context.Background(), "no-such-id", model.Patch{Title: model.String("X")}) {
		t.Fatal("update of unknown id should fail silently")
	}
}

func TestDeleteRemovesRecordAndCacheEntry(t *testing.T) {
	gw := setupGateway(t)
	note := addNote(t, gw, "Doomed")

	if !gw.Delete(context.Background(), note.ID) {
		t.Fatal("delete failed")
	}
	if _, ok := gw.GetByID(note.ID); ok {
		t.Fatal("note still cached after delete")
	}
	if gw.Delete(context.Background(), note.ID) {
		t.Fatal("second delete should report unknown id")
	}

	notes := gw.LoadAll(context.Background())
	if len(notes) != 0 {
		t.Fatalf("note survived in storage: %#v", notes)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	if err := gw.AddCategory(ctx, "Projects", "#112233"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := gw.AddCategory(ctx, "Projects", "#445566"); err != ErrDuplicateCategory {
		t.Fatalf("expected ErrDuplicateCategory, got: %v", err)
	}

	note := model.Note{Title: "Project note", Category: "Projects", Priority: model.PriorityLow}
	if !gw.Add(ctx, &note) {
		t.Fatal("add note failed")
	}

	if err := gw.RenameCategory(ctx, "Projects", "Archive"); err != nil {
		t.Fatalf("rename category: %v", err)
	}
	renamed, _ := gw.GetByID(note.ID)
	if renamed.Category != "Archive" {
		t.Fatalf("rename did not reach cached note: %q", renamed.Category)
	}

	if err := gw.DeleteCategory(ctx, "Archive"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	orphan, ok := gw.GetByID(note.ID)
	if !ok {
		t.Fatal("note must survive category deletion")
	}
	if orphan.Category != model.DefaultCategory {
		t.Fatalf("expected fallback category, got %q", orphan.Category)
	}
}

func TestReservedCategoriesAreProtected(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	for _, name := range []string{model.FilterAll, model.FilterImportant, model.FilterCompleted} {
		if err := gw.AddCategory(ctx, name, "#000000"); err != ErrReservedCategory {
			t.Fatalf("add %q: expected ErrReservedCategory, got %v", name, err)
		}
		if err := gw.DeleteCategory(ctx, name); err != ErrReservedCategory {
			t.Fatalf("delete %q: expected ErrReservedCategory, got %v", name, err)
		}
		if err := gw.RenameCategory(ctx, name, "Other"); err != ErrReservedCategory {
			t.Fatalf("rename %q: expected ErrReservedCategory, got %v", name, err)
		}
	}
}

func TestStatisticsAggregatesCache(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	a := addNote(t, gw, "one")
	addNote(t, gw, "two")
	important := model.Note{Title: "urgent", Category: "Personal", Priority: model.PriorityHigh}
	if !gw.Add(ctx, &important) {
		t.Fatal("add important note failed")
	}
	if !gw.Update(ctx, a.ID, model.Patch{IsCompleted: model.Bool(true)}) {
		t.Fatal("complete note failed")
	}

	stats := gw.Statistics()
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 || stats.Important != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.ByPriority[model.PriorityHigh] != 1 || stats.ByCategory["Personal"] != 1 {
		t.Fatalf("unexpected breakdowns: %#v", stats)
	}
}

func TestAttachmentReplaceViaPatch(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()
	note := addNote(t, gw, "Files")
	uploaded := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	list := []model.Attachment{{Path: "attachments/a.txt", Name: "a.txt", Size: 3, Type: ".txt", UploadedAt: uploaded}}
	if !gw.Update(ctx, note.ID, model.Patch{Attachments: model.AttachmentList(list)}) {
		t.Fatal("attach update failed")
	}

	reloaded := gw.LoadAll(ctx)
	if len(reloaded) != 1 || len(reloaded[0].Attachments) != 1 || reloaded[0].Attachments[0].Path != "attachments/a.txt" {
		t.Fatalf("attachments not persisted: %#v", reloaded)
	}

	if !gw.Update(ctx, note.ID, model.Patch{Attachments: model.AttachmentList(nil)}) {
		t.Fatal("clear attachments failed")
	}
	cleared, _ := gw.GetByID(note.ID)
	if len(cleared.Attachments) != 0 {
		t.Fatalf("attachment list should be empty: %#v", cleared.Attachments)
	}
}
