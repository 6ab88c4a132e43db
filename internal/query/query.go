// Package query computes the visible subset and ordering of notes for
// a given filter and sort selector. It never touches storage.
package query

import (
	"sort"
	"strings"

	"notedesk/internal/model"
)

type Field string

const (
	FieldCreated  Field = "created_at"
	FieldUpdated  Field = "updated_at"
	FieldTitle    Field = "title"
	FieldPriority Field = "priority"
	FieldDueDate  Field = "due_date"
)

type Sort struct {
	Field Field
	Desc  bool
}

// Display choices offered by the presentation layer.
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortTitleAsc     SortKey = "title_asc"
	SortTitleDesc    SortKey = "title_desc"
	SortPriorityHigh SortKey = "priority_high"
	SortDueDate      SortKey = "due_date"
)

const DefaultSort = SortNewest

func SortKeys() []SortKey {
	return []SortKey{SortNewest, SortOldest, SortTitleAsc, SortTitleDesc, SortPriorityHigh, SortDueDate}
}

// SortFor maps a display choice to its (field, direction) pair.
// Unknown choices fall back to the default order.
func SortFor(key SortKey) Sort {
	switch key {
	case SortOldest:
		return Sort{Field: FieldCreated, Desc: false}
	case SortTitleAsc:
		return Sort{Field: FieldTitle, Desc: false}
	case SortTitleDesc:
		return Sort{Field: FieldTitle, Desc: true}
	case SortPriorityHigh:
		return Sort{Field: FieldPriority, Desc: true}
	case SortDueDate:
		return Sort{Field: FieldDueDate, Desc: false}
	default:
		return Sort{Field: FieldCreated, Desc: true}
	}
}

// Apply filters then orders the notes. The sort is stable: notes with
// equal keys keep the order they were loaded in.
func Apply(notes []model.Note, filter string, by Sort) []model.Note {
	out := filterNotes(notes, filter)
	sortNotes(out, by)
	return out
}

// Search scans title and content for a case-insensitive substring
// match (either field suffices) across the full unfiltered set, in the
// engine's default order.
func Search(notes []model.Note, keyword string) []model.Note {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]model.Note, 0)
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), needle) ||
			strings.Contains(strings.ToLower(note.Content), needle) {
			out = append(out, note)
		}
	}
	sortNotes(out, SortFor(DefaultSort))
	return out
}

func filterNotes(notes []model.Note, filter string) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, note := range notes {
		switch filter {
		case model.FilterAll, "":
			out = append(out, note)
		case model.FilterImportant:
			if note.Important() {
				out = append(out, note)
			}
		case model.FilterCompleted:
			if note.IsCompleted {
				out = append(out, note)
			}
		default:
			// Literal category name, case-sensitive exact match.
			if note.Category == filter {
				out = append(out, note)
			}
		}
	}
	return out
}

func sortNotes(notes []model.Note, by Sort) {
	sort.SliceStable(notes, func(i, j int) bool {
		return less(notes[i], notes[j], by)
	})
}

func less(a, b model.Note, by Sort) bool {
	switch by.Field {
	case FieldTitle:
		left, right := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if left == right {
			return false
		}
		if by.Desc {
			return left > right
		}
		return left < right
	case FieldPriority:
		// Always the enum's rank, never the display string.
		if a.Priority.Rank() == b.Priority.Rank() {
			return false
		}
		if by.Desc {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		return a.Priority.Rank() < b.Priority.Rank()
	case FieldDueDate:
		// A note without a due date sorts after every dated note,
		// whichever direction was asked for.
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return false
		}
		if by.Desc {
			return a.DueDate.After(*b.DueDate)
		}
		return a.DueDate.Before(*b.DueDate)
	case FieldUpdated:
		if a.UpdatedAt.Equal(b.UpdatedAt) {
			return false
		}
		if by.Desc {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	default:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return false
		}
		if by.Desc {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
