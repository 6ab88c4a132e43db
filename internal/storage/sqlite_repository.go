package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	dueDateLayout    = "2006-01-02"

	// Fallbacks applied when a note references a category or priority
	// name that is missing from the catalogs.
	defaultCategoryName = "All"
	defaultPriorityName = "Low"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateNote(ctx context.Context, in Note) error {
	categoryID, err := r.resolveCategory(ctx, in.Category)
	if err != nil {
		return err
	}
	priorityID, err := r.resolvePriority(ctx, in.Priority)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, category_id, priority_id, is_completed, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Content, categoryID, priorityID,
		boolInt(in.IsCompleted), nullDate(in.DueDate), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	if err != nil {
		return err
	}
	return r.insertAttachments(ctx, in.ID, in.Attachments)
}

func (r *SQLiteRepository) GetNote(ctx context.Context, id string) (Note, error) {
	row := r.db.QueryRowContext(ctx, noteSelect+` WHERE n.id = ?`, id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	attachments, err := r.attachmentsByNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	note.Attachments = attachments
	return note, nil
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, in Note, replaceAttachments bool) error {
	categoryID, err := r.resolveCategory(ctx, in.Category)
	if err != nil {
		return err
	}
	priorityID, err := r.resolvePriority(ctx, in.Priority)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, category_id = ?, priority_id = ?, is_completed = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Content, categoryID, priorityID,
		boolInt(in.IsCompleted), nullDate(in.DueDate), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	if !replaceAttachments {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE note_id = ?`, in.ID); err != nil {
		return err
	}
	return r.insertAttachments(ctx, in.ID, in.Attachments)
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListNotes(ctx context.Context) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, noteSelect+` ORDER BY n.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	index := make(map[string]int)
	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		index[note.ID] = len(out)
		out = append(out, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attRows, err := r.db.QueryContext(ctx, `
		SELECT id, note_id, file_path, file_name, file_size, file_type, uploaded_at
		FROM attachments ORDER BY uploaded_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer attRows.Close()
	for attRows.Next() {
		att, scanErr := scanAttachment(attRows)
		if scanErr != nil {
			return nil, scanErr
		}
		if i, ok := index[att.NoteID]; ok {
			out[i].Attachments = append(out[i].Attachments, att)
		}
	}
	return out, attRows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, in Category) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, in.Color, mustTime(in.CreatedAt),
	)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, oldName, newName string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE name = ?`, newName, oldName)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	// Notes referencing the row keep their record; the FK clears the
	// association (ON DELETE SET NULL).
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color, created_at FROM categories ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var item Category
		var created string
		if err := rows.Scan(&item.ID, &item.Name, &item.Color, &created); err != nil {
			return nil, err
		}
		createdAt, err := parseRequiredTime(created)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = createdAt
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListPriorities(ctx context.Context) ([]PriorityRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, rank, color FROM priorities ORDER BY rank ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PriorityRow, 0)
	for rows.Next() {
		var item PriorityRow
		if err := rows.Scan(&item.ID, &item.Name, &item.Rank, &item.Color); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const noteSelect = `
	SELECT n.id, n.title, n.content, c.name, p.name, n.is_completed, n.due_date, n.created_at, n.updated_at
	FROM notes n
	LEFT JOIN categories c ON n.category_id = c.id
	LEFT JOIN priorities p ON n.priority_id = p.id`

// resolveCategory maps a category name to its key, falling back to the
// default category when the name is unknown. Returns nil (stored as
// NULL) only if the default row is missing too.
func (r *SQLiteRepository) resolveCategory(ctx context.Context, name string) (any, error) {
	return r.resolveName(ctx, `SELECT id FROM categories WHERE name = ?`, name, defaultCategoryName)
}

func (r *SQLiteRepository) resolvePriority(ctx context.Context, name string) (any, error) {
	return r.resolveName(ctx, `SELECT id FROM priorities WHERE name = ?`, name, defaultPriorityName)
}

func (r *SQLiteRepository) resolveName(ctx context.Context, query, name, fallback string) (any, error) {
	for _, candidate := range []string{name, fallback} {
		if candidate == "" {
			continue
		}
		var id string
		err := r.db.QueryRowContext(ctx, query, candidate).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return nil, nil
}

func (r *SQLiteRepository) insertAttachments(ctx context.Context, noteID string, attachments []Attachment) error {
	for _, att := range attachments {
		if att.ID == "" {
			att.ID = uuid.NewString()
		}
		uploaded := att.UploadedAt
		if uploaded.IsZero() {
			uploaded = time.Now()
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO attachments (id, note_id, file_path, file_name, file_size, file_type, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			att.ID, noteID, att.Path, att.Name, att.Size, att.Type, mustTime(uploaded),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) attachmentsByNote(ctx context.Context, noteID string) ([]Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, note_id, file_path, file_name, file_size, file_type, uploaded_at
		FROM attachments WHERE note_id = ? ORDER BY uploaded_at ASC, id ASC`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Attachment, 0)
	for rows.Next() {
		att, scanErr := scanAttachment(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, att)
	}
	return out, rows.Err()
}

func nullDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(dueDateLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(dueDateLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (Note, error) {
	var out Note
	var category sql.NullString
	var priority sql.NullString
	var completed int
	var due sql.NullString
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Content, &category, &priority, &completed, &due, &created, &updated); err != nil {
		return Note{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Note{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Note{}, err
	}
	dueDate, err := parseNullableDate(due)
	if err != nil {
		return Note{}, err
	}
	out.Category = category.String
	out.Priority = priority.String
	out.IsCompleted = completed == 1
	out.DueDate = dueDate
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanAttachment(s scanner) (Attachment, error) {
	var out Attachment
	var uploaded string
	if err := s.Scan(&out.ID, &out.NoteID, &out.Path, &out.Name, &out.Size, &out.Type, &uploaded); err != nil {
		return Attachment{}, err
	}
	uploadedAt, err := parseRequiredTime(uploaded)
	if err != nil {
		return Attachment{}, err
	}
	out.UploadedAt = uploadedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
