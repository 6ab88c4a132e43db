// Package controller is the single surface the presentation layer
// talks to. It validates and normalizes input, orchestrates the
// gateway, query engine and attachment manager, and reports failures
// as fixed user-facing reasons.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"notedesk/internal/attach"
	"notedesk/internal/gateway"
	"notedesk/internal/model"
	"notedesk/internal/query"
)

var (
	ErrEmptyTitle        = errors.New("controller: title is empty")
	ErrNoteNotFound      = errors.New("controller: note not found")
	ErrCategoryNotFound  = errors.New("controller: category not found")
	ErrReservedCategory  = errors.New("controller: reserved category")
	ErrDuplicateCategory = errors.New("controller: duplicate category")
	ErrCreateFailed      = errors.New("controller: create failed")
	ErrUpdateFailed      = errors.New("controller: update failed")
	ErrDeleteFailed      = errors.New("controller: delete failed")
	ErrAttachFailed      = errors.New("controller: attach failed")
)

// Listener is notified after successful mutations. The presentation
// layer implements it instead of wiring ambient callbacks.
type Listener interface {
	NotesChanged()
	CategoriesChanged()
}

type Controller struct {
	gw          *gateway.Gateway
	attachments *attach.Manager
	logger      *slog.Logger
	listeners   []Listener

	currentFilter string
	currentSort   query.SortKey
}

func New(gw *gateway.Gateway, attachmentsDir string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gw:            gw,
		attachments:   attach.NewManager(attachmentsDir, gw, logger),
		logger:        logger,
		currentFilter: model.FilterAll,
		currentSort:   query.DefaultSort,
	}
}

func (c *Controller) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// CreateOptions carries the optional fields of a new note.
type CreateOptions struct {
	Content  string
	Category string
	Priority model.Priority
	DueDate  *time.Time
}

// CreateNote rejects empty or whitespace-only titles before any state
// is touched. Unset category and priority default to "All" and Low.
func (c *Controller) CreateNote(ctx context.Context, title string, opts CreateOptions) (*model.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	category := opts.Category
	if category == "" {
		category = model.DefaultCategory
	}
	priority := opts.Priority
	if !priority.IsValid() {
		priority = model.PriorityLow
	}
	note := model.Note{
		Title:    title,
		Content:  strings.TrimSpace(opts.Content),
		Category: category,
		Priority: priority,
		DueDate:  opts.DueDate,
	}
	if !c.gw.Add(ctx, &note) {
		return nil, ErrCreateFailed
	}
	c.notifyNotes()
	return &note, nil
}

// UpdateNote trims string fields and rejects a blank title patch
// outright rather than silently ignoring it.
func (c *Controller) UpdateNote(ctx context.Context, id string, patch model.Patch) error {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return ErrEmptyTitle
		}
		patch.Title = &trimmed
	}
	if patch.Content != nil {
		trimmed := strings.TrimSpace(*patch.Content)
		patch.Content = &trimmed
	}
	if _, ok := c.gw.GetByID(id); !ok {
		return ErrNoteNotFound
	}
	if !c.gw.Update(ctx, id, patch) {
		return ErrUpdateFailed
	}
	c.notifyNotes()
	return nil
}

// DeleteNote removes the note's attachment files from disk first, then
// the record. File cleanup is best-effort and never blocks deletion.
func (c *Controller) DeleteNote(ctx context.Context, id string) error {
	note, ok := c.gw.GetByID(id)
	if !ok {
		return ErrNoteNotFound
	}
	c.attachments.CleanupFiles(note)
	if !c.gw.Delete(ctx, id) {
		return ErrDeleteFailed
	}
	c.notifyNotes()
	return nil
}

func (c *Controller) ToggleCompleted(ctx context.Context, id string) error {
	note, ok := c.gw.GetByID(id)
	if !ok {
		return ErrNoteNotFound
	}
	if !c.gw.Update(ctx, id, model.Patch{IsCompleted: model.Bool(!note.IsCompleted)}) {
		return ErrUpdateFailed
	}
	c.notifyNotes()
	return nil
}

func (c *Controller) ToggleImportant(ctx context.Context, id string) error {
	note, ok := c.gw.GetByID(id)
	if !ok {
		return ErrNoteNotFound
	}
	next := model.PriorityHigh
	if note.Priority == model.PriorityHigh {
		next = model.PriorityLow
	}
	if !c.gw.Update(ctx, id, model.Patch{Priority: model.PriorityPtr(next)}) {
		return ErrUpdateFailed
	}
	c.notifyNotes()
	return nil
}

func (c *Controller) AddAttachment(ctx context.Context, id, sourcePath string) (string, error) {
	dest, err := c.attachments.Attach(ctx, id, sourcePath)
	if err != nil {
		if errors.Is(err, attach.ErrNoteNotFound) {
			return "", ErrNoteNotFound
		}
		return "", err
	}
	c.notifyNotes()
	return dest, nil
}

func (c *Controller) RemoveAttachment(ctx context.Context, id, path string) error {
	if !c.attachments.Detach(ctx, id, path) {
		return ErrNoteNotFound
	}
	c.notifyNotes()
	return nil
}

// GetFilteredNotes remembers the filter and returns the visible set in
// the current sort order.
func (c *Controller) GetFilteredNotes(filter string) []model.Note {
	if filter == "" {
		filter = model.FilterAll
	}
	c.currentFilter = filter
	return query.Apply(c.gw.Notes(), filter, query.SortFor(c.currentSort))
}

// SortNotes switches the sort criterion and re-applies the current
// filter.
func (c *Controller) SortNotes(key query.SortKey) []model.Note {
	c.currentSort = key
	return c.GetFilteredNotes(c.currentFilter)
}

func (c *Controller) CurrentFilter() string     { return c.currentFilter }
func (c *Controller) CurrentSort() query.SortKey { return c.currentSort }

// SearchByKeyword scans the full unfiltered set; a blank keyword falls
// back to the current filtered view.
func (c *Controller) SearchByKeyword(text string) []model.Note {
	text = strings.TrimSpace(text)
	if text == "" {
		return c.GetFilteredNotes(c.currentFilter)
	}
	return query.Search(c.gw.Notes(), text)
}

func (c *Controller) GetNote(id string) (model.Note, bool) {
	return c.gw.GetByID(id)
}

// GetCategories lists the three pseudo-filters first, then the user
// categories, without duplicates.
func (c *Controller) GetCategories(ctx context.Context) []string {
	out := []string{model.FilterAll, model.FilterImportant, model.FilterCompleted}
	seen := map[string]struct{}{
		model.FilterAll:       {},
		model.FilterImportant: {},
		model.FilterCompleted: {},
	}
	for _, cat := range c.gw.Categories(ctx) {
		if _, dup := seen[cat.Name]; dup {
			continue
		}
		seen[cat.Name] = struct{}{}
		out = append(out, cat.Name)
	}
	return out
}

// Categories exposes the raw catalog, colors included.
func (c *Controller) Categories(ctx context.Context) []model.Category {
	return c.gw.Categories(ctx)
}

func (c *Controller) Priorities(ctx context.Context) []model.PriorityInfo {
	return c.gw.Priorities(ctx)
}

func (c *Controller) GetStatistics() model.Stats {
	return c.gw.Statistics()
}

func (c *Controller) NoteCount(filter string) int {
	return len(query.Apply(c.gw.Notes(), filter, query.SortFor(c.currentSort)))
}

func (c *Controller) AddCategory(ctx context.Context, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryNotFound
	}
	if model.IsReservedCategory(name) {
		return ErrReservedCategory
	}
	if err := c.gw.AddCategory(ctx, name, color); err != nil {
		return mapCategoryErr(err)
	}
	c.notifyCategories()
	return nil
}

func (c *Controller) RenameCategory(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrCategoryNotFound
	}
	if model.IsReservedCategory(oldName) || model.IsReservedCategory(newName) {
		return ErrReservedCategory
	}
	if err := c.gw.RenameCategory(ctx, oldName, newName); err != nil {
		return mapCategoryErr(err)
	}
	c.notifyCategories()
	c.notifyNotes()
	return nil
}

func (c *Controller) DeleteCategory(ctx context.Context, name string) error {
	if model.IsReservedCategory(name) {
		return ErrReservedCategory
	}
	if err := c.gw.DeleteCategory(ctx, name); err != nil {
		return mapCategoryErr(err)
	}
	c.notifyCategories()
	c.notifyNotes()
	return nil
}

// Refresh reloads the cache from storage and tells listeners.
func (c *Controller) Refresh(ctx context.Context) {
	c.gw.LoadAll(ctx)
	c.notifyNotes()
	c.notifyCategories()
}

func mapCategoryErr(err error) error {
	switch {
	case errors.Is(err, gateway.ErrReservedCategory):
		return ErrReservedCategory
	case errors.Is(err, gateway.ErrDuplicateCategory):
		return ErrDuplicateCategory
	case errors.Is(err, gateway.ErrCategoryNotFound):
		return ErrCategoryNotFound
	default:
		return ErrUpdateFailed
	}
}

func (c *Controller) notifyNotes() {
	for _, l := range c.listeners {
		l.NotesChanged()
	}
}

func (c *Controller) notifyCategories() {
	for _, l := range c.listeners {
		l.CategoriesChanged()
	}
}

// Reason maps an operation error to the single human-readable message
// shown to the user. Raw internal error text never leaks through here.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyTitle):
		return "Title cannot be empty."
	case errors.Is(err, attach.ErrTooLarge):
		return "File is larger than the 5 MiB attachment limit."
	case errors.Is(err, attach.ErrSourceMissing):
		return "The selected file does not exist."
	case errors.Is(err, ErrNoteNotFound):
		return "Note not found."
	case errors.Is(err, ErrCategoryNotFound):
		return "Category not found."
	case errors.Is(err, ErrReservedCategory):
		return "This category is built in and cannot be changed."
	case errors.Is(err, ErrDuplicateCategory):
		return "A category with this name already exists."
	case errors.Is(err, ErrCreateFailed):
		return "Could not create the note."
	case errors.Is(err, ErrDeleteFailed):
		return "Could not delete the note."
	case errors.Is(err, ErrAttachFailed):
		return "Could not attach the file."
	default:
		return "The operation failed."
	}
}
