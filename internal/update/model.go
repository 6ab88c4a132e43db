package update

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"

	"notedesk/internal/controller"
	"notedesk/internal/model"
	"notedesk/internal/query"
)

type Screen string

const (
	ScreenNotes Screen = "Notes"
	ScreenStats Screen = "Stats"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type PaletteState struct {
	Active  bool
	Matches []string
}

type GlobalKeyMap struct {
	Quit      string
	Palette   string
	NewNote   string
	Toggle    string
	Star      string
	Delete    string
	Filter    string
	Sort      string
	Stats     string
	Refresh   string
}

// changeSignal implements controller.Listener; mutations mark the
// model dirty so the next frame reloads from the controller.
type changeSignal struct {
	notes      bool
	categories bool
}

func (s *changeSignal) NotesChanged()      { s.notes = true }
func (s *changeSignal) CategoriesChanged() { s.categories = true }

type Model struct {
	ctx   context.Context
	ctrl  *controller.Controller
	theme string

	Screen        Screen
	Notes         []model.Note
	Filters       []string
	FilterIdx     int
	SortIdx       int
	Selected      int
	SearchResults string

	CaptureActive bool
	titleInput    textinput.Model
	commandInput  textinput.Model
	Palette       PaletteState

	Status   StatusBar
	Keys     GlobalKeyMap
	signal   *changeSignal
	Quitting bool
}

func NewModel(ctx context.Context, ctrl *controller.Controller, theme string) Model {
	titleInput := textinput.New()
	titleInput.Placeholder = "note title"
	titleInput.CharLimit = 200

	commandInput := textinput.New()
	commandInput.Placeholder = "/add buy milk"

	signal := &changeSignal{}
	ctrl.AddListener(signal)

	m := Model{
		ctx:          ctx,
		ctrl:         ctrl,
		theme:        theme,
		Screen:       ScreenNotes,
		titleInput:   titleInput,
		commandInput: commandInput,
		signal:       signal,
		Keys: GlobalKeyMap{
			Quit:    "q",
			Palette: "/",
			NewNote: "n",
			Toggle:  "x",
			Star:    "s",
			Delete:  "D",
			Filter:  "tab",
			Sort:    "o",
			Stats:   "g",
			Refresh: "r",
		},
	}
	m.reloadFilters()
	m.reloadNotes()
	return m
}

func (m *Model) currentFilter() string {
	if len(m.Filters) == 0 {
		return model.FilterAll
	}
	return m.Filters[m.FilterIdx]
}

func (m *Model) currentSortKey() query.SortKey {
	keys := query.SortKeys()
	return keys[m.SortIdx%len(keys)]
}

func (m *Model) reloadFilters() {
	m.Filters = m.ctrl.GetCategories(m.ctx)
	if m.FilterIdx >= len(m.Filters) {
		m.FilterIdx = 0
	}
}

func (m *Model) reloadNotes() {
	m.Notes = m.ctrl.GetFilteredNotes(m.currentFilter())
	m.SearchResults = ""
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.Selected >= len(m.Notes) {
		m.Selected = len(m.Notes) - 1
	}
	if m.Selected < 0 {
		m.Selected = 0
	}
}

// consumeSignal folds listener notifications back into view state.
func (m *Model) consumeSignal() {
	if m.signal.categories {
		m.signal.categories = false
		m.reloadFilters()
	}
	if m.signal.notes {
		m.signal.notes = false
		m.reloadNotes()
	}
}

func (m *Model) selectedNote() (model.Note, bool) {
	if len(m.Notes) == 0 || m.Selected < 0 || m.Selected >= len(m.Notes) {
		return model.Note{}, false
	}
	return m.Notes[m.Selected], true
}
