package storage

import "time"

// Note is the storage-level record, already joined with the
// human-readable category and priority names. An empty Category or
// Priority means the referenced catalog row is gone.
type Note struct {
	ID          string
	Title       string
	Content     string
	Category    string
	Priority    string
	IsCompleted bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attachments []Attachment
}

type Attachment struct {
	ID         string
	NoteID     string
	Path       string
	Name       string
	Size       int64
	Type       string
	UploadedAt time.Time
}

type Category struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

type PriorityRow struct {
	ID    string
	Name  string
	Rank  int
	Color string
}
