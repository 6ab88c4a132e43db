// Package attach binds external files to notes. Files are copied into
// an application-managed directory so the stored record never depends
// on a caller-supplied location.
package attach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"notedesk/internal/model"
)

// MaxFileSize is the attachment size ceiling (5 MiB). Exceeding it is
// a distinct, user-visible error, not a generic failure.
const MaxFileSize = 5 << 20

var (
	ErrTooLarge      = errors.New("attach: file exceeds the 5 MiB limit")
	ErrSourceMissing = errors.New("attach: source file not found")
	ErrNoteNotFound  = errors.New("attach: note not found")
)

// NoteStore is the slice of the gateway the manager needs.
type NoteStore interface {
	GetByID(id string) (model.Note, bool)
	Update(ctx context.Context, id string, patch model.Patch) bool
}

type Manager struct {
	dir    string
	store  NoteStore
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(dir string, store NoteStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dir: dir, store: store, logger: logger, now: time.Now}
}

// Attach copies the source file into the managed directory under a
// timestamped name and registers the new path on the note. Exactly one
// file is created and one gateway update issued; a copy failure leaves
// no partial registration.
func (m *Manager) Attach(ctx context.Context, noteID, sourcePath string) (string, error) {
	note, ok := m.store.GetByID(noteID)
	if !ok {
		return "", ErrNoteNotFound
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrSourceMissing
		}
		return "", fmt.Errorf("stat source: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", ErrTooLarge
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create attachment dir: %w", err)
	}

	destPath := m.destFor(sourcePath)
	if err := copyFile(sourcePath, destPath); err != nil {
		m.logger.Error("copy attachment", "src", sourcePath, "err", err)
		_ = os.Remove(destPath)
		return "", err
	}

	attachment := model.Attachment{
		Path:       destPath,
		Name:       filepath.Base(sourcePath),
		Size:       info.Size(),
		Type:       filepath.Ext(sourcePath),
		UploadedAt: m.now(),
	}
	updated := append(append([]model.Attachment(nil), note.Attachments...), attachment)
	if !m.store.Update(ctx, noteID, model.Patch{Attachments: model.AttachmentList(updated)}) {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("attach: persisting attachment list failed")
	}
	return destPath, nil
}

// Detach removes the file and unregisters the path. A missing file is
// not an error; only an unknown note makes this fail.
func (m *Manager) Detach(ctx context.Context, noteID, path string) bool {
	note, ok := m.store.GetByID(noteID)
	if !ok {
		return false
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Error("remove attachment file", "path", path, "err", err)
	}
	updated := make([]model.Attachment, 0, len(note.Attachments))
	for _, att := range note.Attachments {
		if att.Path != path {
			updated = append(updated, att)
		}
	}
	if !m.store.Update(ctx, noteID, model.Patch{Attachments: model.AttachmentList(updated)}) {
		m.logger.Error("persist detach", "note", noteID, "path", path)
	}
	return true
}

// CleanupFiles deletes every attachment file of the note, best-effort:
// one failing file never blocks the rest.
func (m *Manager) CleanupFiles(note model.Note) {
	for _, att := range note.Attachments {
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			m.logger.Error("cleanup attachment file", "path", att.Path, "err", err)
		}
	}
}

// destFor builds a collision-resistant destination name: timestamp plus
// the original basename, extension preserved.
func (m *Manager) destFor(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stamp := m.now().Format("20060102_150405")
	dest := filepath.Join(m.dir, fmt.Sprintf("%s_%s", stamp, base))
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(m.dir, fmt.Sprintf("%s_%d_%s", stamp, m.now().Nanosecond(), base))
	}
	return dest
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy bytes: %w", err)
	}
	return out.Sync()
}
