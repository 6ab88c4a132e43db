package gateway

import (
	"notedesk/internal/model"
	"notedesk/internal/storage"
)

func toStorage(n model.Note) storage.Note {
	attachments := make([]storage.Attachment, 0, len(n.Attachments))
	for _, att := range n.Attachments {
		attachments = append(attachments, storage.Attachment{
			NoteID:     n.ID,
			Path:       att.Path,
			Name:       att.Name,
			Size:       att.Size,
			Type:       att.Type,
			UploadedAt: att.UploadedAt,
		})
	}
	return storage.Note{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		Priority:    string(n.Priority),
		IsCompleted: n.IsCompleted,
		DueDate:     n.DueDate,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
		Attachments: attachments,
	}
}

func fromStorage(rec storage.Note) model.Note {
	category := rec.Category
	if category == "" {
		category = model.DefaultCategory
	}
	priority := model.Priority(rec.Priority)
	if !priority.IsValid() {
		priority = model.PriorityLow
	}
	attachments := make([]model.Attachment, 0, len(rec.Attachments))
	for _, att := range rec.Attachments {
		attachments = append(attachments, model.Attachment{
			Path:       att.Path,
			Name:       att.Name,
			Size:       att.Size,
			Type:       att.Type,
			UploadedAt: att.UploadedAt,
		})
	}
	return model.Note{
		ID:          rec.ID,
		Title:       rec.Title,
		Content:     rec.Content,
		Category:    category,
		Priority:    priority,
		IsCompleted: rec.IsCompleted,
		DueDate:     rec.DueDate,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		Attachments: attachments,
	}
}
