package update

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"notedesk/internal/commands"
	"notedesk/internal/query"
)

func (m Model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.Palette.Active = false
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "palette closed"}
		return m, nil
	case "enter":
		input := m.commandInput.Value()
		m.Palette.Active = false
		m.commandInput.Blur()
		return m.runCommand(input), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(key)
	m.Palette.Matches = m.suggest(m.commandInput.Value())
	return m, cmd
}

func (m Model) runCommand(input string) Model {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	result, err := commands.Execute(cmd, commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			if _, createErr := m.ctrl.CreateNote(m.ctx, args.Title, controllerCreateDefaults(m.currentFilter())); createErr != nil {
				return commands.Result{}, createErr
			}
			return commands.Result{Message: "note created"}, nil
		},
		Search: func(args commands.SearchArgs) (commands.Result, error) {
			m.Notes = m.ctrl.SearchByKeyword(args.Keyword)
			m.SearchResults = args.Keyword
			m.Selected = 0
			return commands.Result{Message: "search results for " + args.Keyword}, nil
		},
		Filter: func(args commands.FilterArgs) (commands.Result, error) {
			for i, name := range m.Filters {
				if name == args.Name {
					m.FilterIdx = i
					break
				}
			}
			m.Notes = m.ctrl.GetFilteredNotes(args.Name)
			m.SearchResults = ""
			m.clampSelection()
			return commands.Result{Message: "filter: " + args.Name}, nil
		},
		Sort: func(args commands.SortArgs) (commands.Result, error) {
			key := query.SortKey(args.Key)
			for i, known := range query.SortKeys() {
				if known == key {
					m.SortIdx = i
					break
				}
			}
			m.Notes = m.ctrl.SortNotes(key)
			m.clampSelection()
			return commands.Result{Message: "sort: " + args.Key}, nil
		},
		Done: func(args commands.DoneArgs) (commands.Result, error) {
			id, ok := m.noteAt(args.Position)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such note number"}
			}
			if toggleErr := m.ctrl.ToggleCompleted(m.ctx, id); toggleErr != nil {
				return commands.Result{}, toggleErr
			}
			return commands.Result{Message: "completion toggled"}, nil
		},
		Star: func(args commands.StarArgs) (commands.Result, error) {
			id, ok := m.noteAt(args.Position)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such note number"}
			}
			if toggleErr := m.ctrl.ToggleImportant(m.ctx, id); toggleErr != nil {
				return commands.Result{}, toggleErr
			}
			return commands.Result{Message: "importance toggled"}, nil
		},
	})
	if err != nil {
		var cmdErr *commands.CommandError
		if errors.As(err, &cmdErr) {
			m.Status = StatusBar{Text: cmdErr.Message, IsError: true}
		} else {
			m.Status = StatusBar{Text: reason(err), IsError: true}
		}
		return m
	}

	m.consumeSignal()
	m.Status = StatusBar{Text: result.Message}
	return m
}

// noteAt resolves a 1-based list position to a note ID.
func (m Model) noteAt(position int) (string, bool) {
	if position < 1 || position > len(m.Notes) {
		return "", false
	}
	return m.Notes[position-1].ID, true
}

// suggest fuzzy-matches the palette input against the known command
// vocabulary, filters included.
func (m Model) suggest(input string) []string {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	vocabulary := m.vocabulary()
	if input == "" {
		return vocabulary[:min(5, len(vocabulary))]
	}
	matches := fuzzy.Find(input, vocabulary)
	out := make([]string, 0, 5)
	for _, match := range matches {
		out = append(out, match.Str)
		if len(out) == 5 {
			break
		}
	}
	return out
}

func (m Model) vocabulary() []string {
	out := []string{"add ", "search "}
	for _, name := range m.Filters {
		out = append(out, "filter "+name)
	}
	for _, key := range query.SortKeys() {
		out = append(out, "sort "+string(key))
	}
	out = append(out, "done ", "star ")
	return out
}

func (m Model) paletteView() string {
	line := "command: " + m.commandInput.View()
	if len(m.Palette.Matches) > 0 {
		line += "\n  " + strings.Join(m.Palette.Matches, "\n  ")
	}
	return line
}
