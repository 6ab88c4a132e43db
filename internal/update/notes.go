package update

import (
	"fmt"

	"notedesk/internal/controller"
	"notedesk/internal/model"
	"notedesk/internal/query"
	"notedesk/internal/views"
)

// New notes default into the active category filter; pseudo-filters
// fall back to the default category.
func controllerCreateDefaults(filter string) controller.CreateOptions {
	opts := controller.CreateOptions{}
	if filter != "" && !model.IsReservedCategory(filter) {
		opts.Category = filter
	}
	return opts
}

func reason(err error) string {
	return controller.Reason(err)
}

func sortKeyCount() int {
	return len(query.SortKeys())
}

func (m Model) noteRows() []views.NoteRowData {
	rows := make([]views.NoteRowData, 0, len(m.Notes))
	for i, note := range m.Notes {
		due := ""
		if note.DueDate != nil {
			due = note.DueDate.Format("2006-01-02")
		}
		rows = append(rows, views.NoteRowData{
			Index:         i + 1,
			Title:         note.Title,
			Category:      note.Category,
			Priority:      string(note.Priority),
			PriorityColor: note.Priority.Color(),
			DueDate:       due,
			Completed:     note.IsCompleted,
			Important:     note.Important(),
			Attachments:   len(note.Attachments),
			Selected:      i == m.Selected,
		})
	}
	return rows
}

func (m Model) detailData() views.DetailData {
	note, ok := m.selectedNote()
	if !ok {
		return views.DetailData{}
	}
	meta := fmt.Sprintf("%s · %s · created %s",
		note.Category, note.Priority, note.CreatedAt.Format("2006-01-02 15:04"))
	if note.DueDate != nil {
		meta += " · due " + note.DueDate.Format("2006-01-02")
	}
	attachments := make([]string, 0, len(note.Attachments))
	for _, att := range note.Attachments {
		attachments = append(attachments, fmt.Sprintf("%s (%d bytes)", att.Name, att.Size))
	}
	return views.DetailData{
		Title:       note.Title,
		Meta:        meta,
		Content:     views.RenderMarkdown(note.Content, m.theme),
		Attachments: attachments,
	}
}

func (m Model) statsData() views.StatsData {
	stats := m.ctrl.GetStatistics()
	byPriority := make(map[string]int, len(stats.ByPriority))
	for priority, count := range stats.ByPriority {
		byPriority[string(priority)] = count
	}
	return views.StatsData{
		Total:      stats.Total,
		Completed:  stats.Completed,
		Pending:    stats.Pending,
		Important:  stats.Important,
		ByPriority: byPriority,
		ByCategory: stats.ByCategory,
	}
}
