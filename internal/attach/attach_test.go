package attach

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedesk/internal/model"
)

type memStore struct {
	notes map[string]model.Note
}

func (s *memStore) GetByID(id string) (model.Note, bool) {
	note, ok := s.notes[id]
	return note, ok
}

func (s *memStore) Update(_ context.Context, id string, patch model.Patch) bool {
	note, ok := s.notes[id]
	if !ok {
		return false
	}
	patch.Apply(&note)
	s.notes[id] = note
	return true
}

func setup(t *testing.T) (*Manager, *memStore, string) {
	t.Helper()
	store := &memStore{notes: map[string]model.Note{
		"note-1": {ID: "note-1", Title: "Host note", Priority: model.PriorityLow},
	}}
	dir := filepath.Join(t.TempDir(), "attachments")
	manager := NewManager(dir, store, nil)
	return manager, store, dir
}

func writeSource(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
	return path
}

func TestAttachCopiesAndRegisters(t *testing.T) {
	manager, store, dir := setup(t)
	src := writeSource(t, "report.pdf", 128)

	dest, err := manager.Attach(context.Background(), "note-1", src)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(dest))
	assert.Contains(t, filepath.Base(dest), "report.pdf")

	copied, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, copied, 128)

	// Original stays where it was.
	_, err = os.Stat(src)
	require.NoError(t, err)

	note, _ := store.GetByID("note-1")
	require.Len(t, note.Attachments, 1)
	assert.Equal(t, dest, note.Attachments[0].Path)
	assert.Equal(t, "report.pdf", note.Attachments[0].Name)
	assert.Equal(t, int64(128), note.Attachments[0].Size)
	assert.Equal(t, ".pdf", note.Attachments[0].Type)
}

func TestAttachRejectsOversizedFile(t *testing.T) {
	manager, store, dir := setup(t)
	src := writeSource(t, "huge.bin", MaxFileSize+1)

	_, err := manager.Attach(context.Background(), "note-1", src)
	assert.ErrorIs(t, err, ErrTooLarge)

	note, _ := store.GetByID("note-1")
	assert.Empty(t, note.Attachments)

	entries, readErr := os.ReadDir(dir)
	if readErr == nil {
		assert.Empty(t, entries)
	}
}

func TestAttachMissingSource(t *testing.T) {
	manager, _, _ := setup(t)
	_, err := manager.Attach(context.Background(), "note-1", filepath.Join(t.TempDir(), "ghost.txt"))
	assert.ErrorIs(t, err, ErrSourceMissing)
}

func TestAttachUnknownNote(t *testing.T) {
	manager, _, _ := setup(t)
	src := writeSource(t, "a.txt", 4)
	_, err := manager.Attach(context.Background(), "nope", src)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestAttachDetachRoundTrip(t *testing.T) {
	manager, store, _ := setup(t)
	src := writeSource(t, "photo.jpg", 64)

	dest, err := manager.Attach(context.Background(), "note-1", src)
	require.NoError(t, err)

	require.True(t, manager.Detach(context.Background(), "note-1", dest))

	note, _ := store.GetByID("note-1")
	assert.Empty(t, note.Attachments)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDetachMissingFileStillProceeds(t *testing.T) {
	manager, store, _ := setup(t)
	note := store.notes["note-1"]
	note.Attachments = []model.Attachment{{Path: "/nowhere/gone.txt", Name: "gone.txt"}}
	store.notes["note-1"] = note

	assert.True(t, manager.Detach(context.Background(), "note-1", "/nowhere/gone.txt"))
	updated, _ := store.GetByID("note-1")
	assert.Empty(t, updated.Attachments)
}

func TestDetachUnknownNote(t *testing.T) {
	manager, _, _ := setup(t)
	assert.False(t, manager.Detach(context.Background(), "nope", "whatever"))
}

func TestCleanupFilesBestEffort(t *testing.T) {
	manager, _, _ := setup(t)
	existing := writeSource(t, "keepme.txt", 8)

	note := model.Note{
		ID:    "note-1",
		Title: "Cleanup",
		Attachments: []model.Attachment{
			{Path: "/nowhere/missing.txt"},
			{Path: existing},
		},
	}
	manager.CleanupFiles(note)

	_, err := os.Stat(existing)
	assert.True(t, os.IsNotExist(err), "existing file should be removed despite earlier miss")
}

func TestAttachNamesAreCollisionResistant(t *testing.T) {
	manager, _, _ := setup(t)
	src := writeSource(t, "same.txt", 4)

	first, err := manager.Attach(context.Background(), "note-1", src)
	require.NoError(t, err)
	second, err := manager.Attach(context.Background(), "note-1", src)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
