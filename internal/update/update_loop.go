package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"notedesk/internal/views"
)

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CaptureActive {
			return m.handleCaptureKey(typed)
		}
		return m.handleMainKey(typed)
	}
	return m, nil
}

func (m Model) handleMainKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Matches = nil
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.NewNote:
		m.CaptureActive = true
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		m.Status = StatusBar{Text: "enter a title for the new note"}
		return m, nil
	case m.Keys.Filter:
		m.FilterIdx = (m.FilterIdx + 1) % len(m.Filters)
		m.reloadNotes()
		m.Status = StatusBar{Text: "filter: " + m.currentFilter()}
		return m, nil
	case "shift+tab":
		m.FilterIdx = (m.FilterIdx - 1 + len(m.Filters)) % len(m.Filters)
		m.reloadNotes()
		m.Status = StatusBar{Text: "filter: " + m.currentFilter()}
		return m, nil
	case m.Keys.Sort:
		m.cycleSort()
		return m, nil
	case m.Keys.Stats:
		if m.Screen == ScreenStats {
			m.Screen = ScreenNotes
		} else {
			m.Screen = ScreenStats
		}
		return m, nil
	case m.Keys.Refresh:
		m.ctrl.Refresh(m.ctx)
		m.consumeSignal()
		m.Status = StatusBar{Text: "reloaded from storage"}
		return m, nil
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Notes)-1 {
			m.Selected++
		}
		return m, nil
	case m.Keys.Toggle:
		return m.withSelected(func(id string) error { return m.ctrl.ToggleCompleted(m.ctx, id) }, "completion toggled"), nil
	case m.Keys.Star:
		return m.withSelected(func(id string) error { return m.ctrl.ToggleImportant(m.ctx, id) }, "importance toggled"), nil
	case m.Keys.Delete:
		return m.withSelected(func(id string) error { return m.ctrl.DeleteNote(m.ctx, id) }, "note deleted"), nil
	}
	return m, nil
}

func (m Model) handleCaptureKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.CaptureActive = false
		m.titleInput.Blur()
		m.Status = StatusBar{Text: "capture cancelled"}
		return m, nil
	case "enter":
		title := m.titleInput.Value()
		m.CaptureActive = false
		m.titleInput.Blur()
		if _, err := m.ctrl.CreateNote(m.ctx, title, controllerCreateDefaults(m.currentFilter())); err != nil {
			m.Status = StatusBar{Text: reason(err), IsError: true}
			return m, nil
		}
		m.consumeSignal()
		m.Status = StatusBar{Text: "note created"}
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(key)
	return m, cmd
}

func (m Model) withSelected(op func(id string) error, okText string) Model {
	note, ok := m.selectedNote()
	if !ok {
		m.Status = StatusBar{Text: "no note selected", IsError: true}
		return m
	}
	if err := op(note.ID); err != nil {
		m.Status = StatusBar{Text: reason(err), IsError: true}
		return m
	}
	m.consumeSignal()
	m.Status = StatusBar{Text: okText}
	return m
}

func (m *Model) cycleSort() {
	m.SortIdx = (m.SortIdx + 1) % sortKeyCount()
	m.Notes = m.ctrl.SortNotes(m.currentSortKey())
	m.clampSelection()
	m.Status = StatusBar{Text: "sort: " + string(m.currentSortKey())}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	header := "notedesk"
	if m.SearchResults != "" {
		header += fmt.Sprintf(" / search %q", m.SearchResults)
	}

	left := views.RenderNoteList(m.noteRows(), "no notes match this filter")
	var right string
	if m.Screen == ScreenStats {
		right = views.RenderStats(m.statsData())
	} else {
		right = views.RenderDetail(m.detailData())
	}

	footer := m.footerText()
	if m.CaptureActive {
		footer = "new note: " + m.titleInput.View()
	}
	if m.Palette.Active {
		footer = m.paletteView()
	}

	return views.RenderApp(views.AppData{
		Header:     header,
		FilterBar:  m.filterBar(),
		LeftPane:   left,
		RightPane:  right,
		StatusLine: m.Status.Text,
		StatusErr:  m.Status.IsError,
		Footer:     footer,
	})
}

func (m Model) filterBar() string {
	parts := make([]string, 0, len(m.Filters))
	for i, name := range m.Filters {
		label := fmt.Sprintf("%s(%d)", name, m.ctrl.NoteCount(name))
		if i == m.FilterIdx {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) footerText() string {
	return "n new · x done · s star · D delete · tab filter · o sort · g stats · / command · r reload · q quit"
}
