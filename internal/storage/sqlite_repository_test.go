package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "notedesk-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func testNote(id, title string, created time.Time) Note {
	return Note{
		ID:        id,
		Title:     title,
		Content:   "content of " + title,
		Category:  "Work",
		Priority:  "Medium",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestNoteCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	note := testNote("note-1", "Quarterly report", created)
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Title != note.Title || got.Category != "Work" || got.Priority != "Medium" {
		t.Fatalf("unexpected note: %#v", got)
	}

	note.Title = "Quarterly report v2"
	note.IsCompleted = true
	note.UpdatedAt = created.Add(time.Hour)
	if err := repo.UpdateNote(ctx, note, false); err != nil {
		t.Fatalf("update note: %v", err)
	}
	got, err = repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "Quarterly report v2" || !got.IsCompleted {
		t.Fatalf("update not applied: %#v", got)
	}

	if err := repo.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if _, err := repo.GetNote(ctx, "note-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.DeleteNote(ctx, "note-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got: %v", err)
	}
}

func TestListNotesNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"note-a", "note-b", "note-c"} {
		note := testNote(id, "Note "+id, base.Add(time.Duration(i)*time.Minute))
		if err := repo.CreateNote(ctx, note); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	notes, err := repo.ListNotes(ctx)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	if notes[0].ID != "note-c" || notes[2].ID != "note-a" {
		t.Fatalf("expected newest-first order, got: %s %s %s", notes[0].ID, notes[1].ID, notes[2].ID)
	}
}

func TestUnknownNamesFallBackToDefaults(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	note := testNote("note-1", "Orphan names", created)
	note.Category = "NoSuchCategory"
	note.Priority = "NoSuchPriority"
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Category != "All" || got.Priority != "Low" {
		t.Fatalf("expected default fallbacks, got category=%q priority=%q", got.Category, got.Priority)
	}
}

func TestUpdateNoteReplacesAttachmentsOnlyWhenAsked(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	note := testNote("note-1", "With files", created)
	note.Attachments = []Attachment{
		{Path: "attachments/one.txt", Name: "one.txt", Size: 10, Type: ".txt", UploadedAt: created},
	}
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	// Plain update leaves the attachment set alone.
	note.Attachments = nil
	note.UpdatedAt = created.Add(time.Minute)
	if err := repo.UpdateNote(ctx, note, false); err != nil {
		t.Fatalf("update note: %v", err)
	}
	got, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("attachments should survive plain update, got %d", len(got.Attachments))
	}

	// Replace is a full rewrite, not a merge.
	note.Attachments = []Attachment{
		{Path: "attachments/two.txt", Name: "two.txt", Size: 20, Type: ".txt", UploadedAt: created.Add(time.Minute)},
	}
	if err := repo.UpdateNote(ctx, note, true); err != nil {
		t.Fatalf("replace attachments: %v", err)
	}
	got, err = repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Path != "attachments/two.txt" {
		t.Fatalf("unexpected attachments after replace: %#v", got.Attachments)
	}
}

func TestDeleteNoteCascadesAttachmentRows(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	note := testNote("note-1", "With files", created)
	note.Attachments = []Attachment{
		{Path: "attachments/one.txt", Name: "one.txt", UploadedAt: created},
	}
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := repo.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}

	var count int
	if err := repo.DB().QueryRow(`SELECT COUNT(*) FROM attachments`).Scan(&count); err != nil {
		t.Fatalf("count attachments: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade to remove attachment rows, got %d", count)
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	if err := repo.CreateCategory(ctx, Category{Name: "Projects", Color: "#112233", CreatedAt: created}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := repo.CreateCategory(ctx, Category{Name: "Projects", Color: "#445566", CreatedAt: created}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got: %v", err)
	}

	note := testNote("note-1", "Categorised", created)
	note.Category = "Projects"
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	// Rename propagates through the foreign key.
	if err := repo.RenameCategory(ctx, "Projects", "Archive"); err != nil {
		t.Fatalf("rename category: %v", err)
	}
	got, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Category != "Archive" {
		t.Fatalf("rename did not propagate, got %q", got.Category)
	}

	// Delete clears the association but keeps the note.
	if err := repo.DeleteCategory(ctx, "Archive"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err = repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("note should survive category delete: %v", err)
	}
	if got.Category != "" {
		t.Fatalf("expected cleared category, got %q", got.Category)
	}

	if err := repo.RenameCategory(ctx, "Missing", "Whatever"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := Seed(repo.DB()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 8 {
		t.Fatalf("expected 8 seeded categories, got %d", len(categories))
	}

	priorities, err := repo.ListPriorities(ctx)
	if err != nil {
		t.Fatalf("list priorities: %v", err)
	}
	if len(priorities) != 3 {
		t.Fatalf("expected 3 priorities, got %d", len(priorities))
	}
	for i, want := range []string{"Low", "Medium", "High"} {
		if priorities[i].Name != want || priorities[i].Rank != i+1 {
			t.Fatalf("unexpected priority catalog: %#v", priorities)
		}
	}
}
