package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type NoteRowData struct {
	Index         int
	Title         string
	Category      string
	Priority      string
	PriorityColor string
	DueDate       string
	Completed     bool
	Important     bool
	Attachments   int
	Selected      bool
}

func RenderNoteList(rows []NoteRowData, empty string) string {
	if len(rows) == 0 {
		return footerStyle.Render(empty)
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderNoteRow(row))
	}
	return b.String()
}

func renderNoteRow(row NoteRowData) string {
	marker := "[ ]"
	if row.Completed {
		marker = "[x]"
	}
	star := " "
	if row.Important {
		star = "*"
	}
	badge := lipgloss.NewStyle().Foreground(lipgloss.Color(row.PriorityColor)).Render(row.Priority)

	title := row.Title
	if row.Completed {
		title = completedStyle.Render(title)
	}
	line := fmt.Sprintf("%2d %s %s %-30s %s · %s", row.Index, marker, star, title, badge, row.Category)
	if row.DueDate != "" {
		line += " · due " + row.DueDate
	}
	if row.Attachments > 0 {
		line += fmt.Sprintf(" · %d file(s)", row.Attachments)
	}
	if row.Selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

type DetailData struct {
	Title       string
	Meta        string
	Content     string
	Attachments []string
}

func RenderDetail(data DetailData) string {
	if data.Title == "" {
		return footerStyle.Render("no note selected")
	}
	lines := []string{
		headerStyle.Render(data.Title),
		footerStyle.Render(data.Meta),
	}
	if data.Content != "" {
		lines = append(lines, "", data.Content)
	}
	if len(data.Attachments) > 0 {
		lines = append(lines, "", headerStyle.Render("Attachments"))
		for _, name := range data.Attachments {
			lines = append(lines, "  - "+name)
		}
	}
	return strings.Join(lines, "\n")
}

type StatsData struct {
	Total      int
	Completed  int
	Pending    int
	Important  int
	ByPriority map[string]int
	ByCategory map[string]int
}

func RenderStats(data StatsData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Statistics"))
	b.WriteString(fmt.Sprintf("\n  total     %d", data.Total))
	b.WriteString(fmt.Sprintf("\n  completed %d", data.Completed))
	b.WriteString(fmt.Sprintf("\n  pending   %d", data.Pending))
	b.WriteString(fmt.Sprintf("\n  important %d", data.Important))

	b.WriteString("\n\n" + headerStyle.Render("By priority"))
	for _, name := range sortedKeys(data.ByPriority) {
		b.WriteString(fmt.Sprintf("\n  %-12s %d", name, data.ByPriority[name]))
	}
	b.WriteString("\n\n" + headerStyle.Render("By category"))
	for _, name := range sortedKeys(data.ByCategory) {
		b.WriteString(fmt.Sprintf("\n  %-12s %d", name, data.ByCategory[name]))
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
