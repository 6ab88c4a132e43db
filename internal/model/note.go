package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid note priority")
	ErrEmptyTitle      = errors.New("model: note title is required")
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank gives the total order used for priority sorting. Display strings
// must never be compared lexically.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "#EF4444"
	case PriorityMedium:
		return "#F59E0B"
	default:
		return "#3B82F6"
	}
}

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// DefaultCategory is the sentinel category a note falls back to when no
// category was chosen or its category row was deleted.
const DefaultCategory = "All"

type Attachment struct {
	Path       string
	Name       string
	Size       int64
	Type       string
	UploadedAt time.Time
}

type Note struct {
	ID          string
	Title       string
	Content     string
	Category    string
	Priority    Priority
	IsCompleted bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attachments []Attachment
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: note id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if !n.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, n.Priority)
	}
	if n.CreatedAt.IsZero() {
		return errors.New("model: note created_at is required")
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		return errors.New("model: note updated_at precedes created_at")
	}
	seen := make(map[string]struct{}, len(n.Attachments))
	for _, att := range n.Attachments {
		if _, dup := seen[att.Path]; dup {
			return fmt.Errorf("model: duplicate attachment path %q", att.Path)
		}
		seen[att.Path] = struct{}{}
	}
	return nil
}

// Important is derived state: a note is important exactly when its
// priority is High.
func (n Note) Important() bool {
	return n.Priority == PriorityHigh
}

func (n *Note) ToggleCompleted() {
	n.IsCompleted = !n.IsCompleted
	n.touch()
}

// ToggleImportant promotes the note to High priority, or demotes an
// already-High note back to Low.
func (n *Note) ToggleImportant() {
	if n.Priority == PriorityHigh {
		n.Priority = PriorityLow
	} else {
		n.Priority = PriorityHigh
	}
	n.touch()
}

// AddAttachment appends the attachment, keeping the list duplicate-free.
// Insertion order is preserved for display.
func (n *Note) AddAttachment(att Attachment) bool {
	for _, existing := range n.Attachments {
		if existing.Path == att.Path {
			return false
		}
	}
	n.Attachments = append(n.Attachments, att)
	n.touch()
	return true
}

func (n *Note) RemoveAttachment(path string) bool {
	for i, att := range n.Attachments {
		if att.Path == path {
			n.Attachments = append(n.Attachments[:i], n.Attachments[i+1:]...)
			n.touch()
			return true
		}
	}
	return false
}

func (n *Note) touch() {
	now := time.Now()
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Nanosecond)
	}
	n.UpdatedAt = now
}
