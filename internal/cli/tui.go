package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridwire/pkg/editor"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// boardTop is the terminal row where the board starts, below the header.
const boardTop = 2

var (
	tuiModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiDirtyStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// SaveFunc persists a graph and returns a short description of where.
type SaveFunc func(graph.Graph) (string, error)

// EditorModel is the bubbletea model of the terminal editor. Mouse
// events become controller gestures; keys switch modes.
type EditorModel struct {
	ctrl  *editor.Controller
	surf  *schematic.Surface
	comps []library.Component
	comp  int
	save  SaveFunc
	title string

	saved       []byte
	status      string
	confirmQuit bool
	quit        bool
	err         error
}

// NewEditorModel wraps a controller. save may be nil, disabling "s".
func NewEditorModel(ctrl *editor.Controller, comps []library.Component, title string, save SaveFunc) EditorModel {
	m := EditorModel{
		ctrl:  ctrl,
		surf:  ctrl.Surface(),
		comps: comps,
		save:  save,
		title: title,
	}
	m.saved = m.snapshot()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

// Dirty reports whether the drawing changed since the last save.
func (m EditorModel) Dirty() bool {
	return !bytes.Equal(m.snapshot(), m.saved)
}

// Err returns the last save error, if any.
func (m EditorModel) Err() error { return m.err }

func (m EditorModel) snapshot() []byte {
	data, _ := graph.Marshal(m.surf.ExportGraph())
	return data
}

// component returns the selected component, if the library is not empty.
func (m EditorModel) component() (library.Component, bool) {
	if len(m.comps) == 0 {
		return library.Component{}, false
	}
	return m.comps[m.comp], true
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		m.confirmQuit = false
	}
	switch key {
	case "q", "ctrl+c":
		if key == "q" && m.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "unsaved changes, press q again to quit"
			return m, nil
		}
		m.quit = true
		return m, tea.Quit
	case "n", "esc":
		m.ctrl.SetMode(editor.Normal{})
		m.status = ""
	case "p":
		m.enterPlace()
	case "tab", "shift+tab":
		if len(m.comps) > 0 {
			step := 1
			if key == "shift+tab" {
				step = len(m.comps) - 1
			}
			m.comp = (m.comp + step) % len(m.comps)
			if _, placing := m.ctrl.Mode().(editor.Place); placing {
				m.enterPlace()
			}
			m.status = "component: " + m.comps[m.comp].Name
		}
	case "c":
		m.ctrl.SetMode(&editor.Connect{})
		m.status = "click vertices, enter to commit"
	case "d":
		m.ctrl.SetMode(editor.Delete{})
		m.status = "click a module or wire to delete it"
	case "enter":
		m.ctrl.Commit()
	case "r":
		m.surf.Refresh()
		m.status = "refreshed"
	case "x":
		mode := m.ctrl.Mode()
		m.surf.Clear()
		m.ctrl.SetMode(mode)
		m.status = "cleared"
	case "s":
		m.doSave()
	}
	return m, nil
}

func (m *EditorModel) enterPlace() {
	comp, ok := m.component()
	if !ok {
		m.status = "no components in the library"
		return
	}
	m.ctrl.SetMode(editor.Place{Component: comp})
	m.status = "click to place " + comp.Name
}

func (m *EditorModel) doSave() {
	if m.save == nil {
		m.status = "nowhere to save (use --output or --session)"
		return
	}
	g := m.surf.Export()
	where, err := m.save(g)
	if err != nil {
		m.err = err
		m.status = "save failed: " + err.Error()
		return
	}
	m.err = nil
	m.saved = m.snapshot()
	m.status = "saved " + where
}

// handleMouse turns terminal mouse events into gestures at the canvas
// position under the pointer.
func (m *EditorModel) handleMouse(msg tea.MouseMsg) {
	if msg.Y < boardTop {
		return
	}
	x, y := m.canvasPoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.ctrl.Press(x, y)
		case tea.MouseButtonRight:
			m.ctrl.SecondaryPress(x, y)
		}
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.Drag(x, y)
		}
	case tea.MouseActionRelease:
		m.ctrl.Release(x, y)
	}
}

func (m EditorModel) canvasPoint(col, row int) (float64, float64) {
	cell := float64(m.surf.Grid().Cell)
	return float64(col) * cell / cellChars, float64(row-boardTop) * cell / cellLines
}

func (m EditorModel) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder

	mode := m.ctrl.Mode().Name()
	header := StyleTitle.Render(m.title) + "  " + tuiModeStyle.Render(strings.ToUpper(mode))
	if comp, ok := m.component(); ok {
		header += tuiDimStyle.Render("  [" + comp.Name + "]")
	}
	if pts := m.ctrl.RoutePoints(); len(pts) > 0 {
		header += tuiDimStyle.Render(fmt.Sprintf("  route: %d vertices", len(pts)))
	}
	if m.Dirty() {
		header += tuiDirtyStyle.Render("  ●")
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	cols, rows := m.surf.Board()
	b.WriteString(rasterize(m.surf.Canvas().Items(), cols, rows, m.surf.Grid().Cell).String())
	b.WriteString("\n\n")

	b.WriteString(tuiDimStyle.Render("n normal  p place  tab component  c connect  ⏎ commit  d delete  r refresh  x clear  s save  q quit"))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(tuiStatusStyle.Render(m.status))
	}
	return b.String()
}
