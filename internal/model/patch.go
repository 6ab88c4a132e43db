package model

import "time"

// Patch carries the optional fields of a partial note update. A nil
// field means "leave unchanged". Attachments, when present, replace the
// whole list rather than merging into it.
type Patch struct {
	Title       *string
	Content     *string
	Category    *string
	Priority    *Priority
	IsCompleted *bool
	DueDate     **time.Time
	Attachments *[]Attachment
}

func (p Patch) IsZero() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil &&
		p.Priority == nil && p.IsCompleted == nil && p.DueDate == nil &&
		p.Attachments == nil
}

// Apply copies every present field onto the note and refreshes its
// updated timestamp.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
	if p.IsCompleted != nil {
		n.IsCompleted = *p.IsCompleted
	}
	if p.DueDate != nil {
		n.DueDate = *p.DueDate
	}
	if p.Attachments != nil {
		n.Attachments = append([]Attachment(nil), (*p.Attachments)...)
	}
	n.touch()
}

// Helpers for building patches without local pointer plumbing.

func String(v string) *string            { return &v }
func Bool(v bool) *bool                  { return &v }
func PriorityPtr(v Priority) *Priority   { return &v }
func DueDate(v *time.Time) **time.Time   { return &v }
func AttachmentList(v []Attachment) *[]Attachment { return &v }
