package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("storage: not found")
	ErrDuplicate = errors.New("storage: duplicate name")
)

type Repository interface {
	CreateNote(ctx context.Context, in Note) error
	GetNote(ctx context.Context, id string) (Note, error)
	// UpdateNote rewrites the note row; the attachment set is replaced
	// only when replaceAttachments is set.
	UpdateNote(ctx context.Context, in Note, replaceAttachments bool) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]Note, error)

	CreateCategory(ctx context.Context, in Category) error
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
	ListCategories(ctx context.Context) ([]Category, error)

	ListPriorities(ctx context.Context) ([]PriorityRow, error)
}
