// Package tui provides the interactive terminal UI for the toy robot.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/toyrobot/internal/models"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#6366F1")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")
	cyanColor      = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)
)

// stateMsg carries a fresh snapshot from the session.
type stateMsg struct {
	state models.State
	err   error
	note  string
}

// commandMsg is the outcome of one submitted command.
type commandMsg struct {
	text     string
	entry    models.HistoryEntry
	err      error
	state    models.State
	stateErr error
}

// App is the main TUI application model.
type App struct {
	session  Session
	label    string
	state    models.State
	place    placement
	cmdbar   *CmdBarModel
	history  viewport.Model
	width    int
	height   int
	message  string
	isError  bool
	showHelp bool
	help     string
}

// New creates a new TUI application driving session. label names the
// session in the header.
func New(session Session, label string) *App {
	return &App{
		session: session,
		label:   label,
		cmdbar:  NewCmdBarModel(),
		history: viewport.New(40, 10),
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.fetchState("")
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		if a.showHelp {
			a.renderHelp()
		}
		return a, nil

	case stateMsg:
		if msg.err != nil {
			a.setError(fmt.Sprintf("Error: %v", msg.err))
			return a, nil
		}
		a.applyState(msg.state)
		if msg.note != "" {
			a.setMessage(msg.note)
		}
		return a, nil

	case commandMsg:
		switch {
		case msg.err != nil:
			a.setError(fmt.Sprintf("%s: %v", strings.TrimSpace(msg.text), msg.err))
		case msg.entry.Result != "":
			a.setMessage(fmt.Sprintf("REPORT → %s", msg.entry.Result))
		default:
			a.setMessage("✓ " + msg.entry.Text)
		}
		if msg.stateErr == nil {
			a.applyState(msg.state)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.cmdbar.Focused() {
		_, cmd := a.cmdbar.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.cmdbar.Focused() {
		if msg.String() == "enter" {
			text := a.cmdbar.Submit()
			if strings.TrimSpace(text) == "" {
				return a, nil
			}
			return a, a.execute(text)
		}
		_, cmd := a.cmdbar.Update(msg)
		return a, cmd
	}

	if a.place.active() {
		return a.handlePlacementKey(msg)
	}

	if a.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "f":
		return a, a.execute(string(models.CmdMove))
	case "left":
		return a, a.execute(string(models.CmdLeft))
	case "right":
		return a, a.execute(string(models.CmdRight))
	case "r":
		return a, a.execute(string(models.CmdReport))
	case "p":
		a.startPlacement(placingRobot)
	case "w":
		a.startPlacement(placingWall)
	case ":", "/":
		a.message = ""
		return a, a.cmdbar.Focus()
	case "ctrl+r":
		return a, a.reset()
	case "?":
		a.showHelp = true
		a.renderHelp()
	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handlePlacementKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := a.state.Size
	switch msg.String() {
	case "esc", "q":
		a.place = placement{}
		a.setMessage("Placement cancelled")
	case "up", "k":
		a.place.cursor.Y = min(a.place.cursor.Y+1, size)
	case "down", "j":
		a.place.cursor.Y = max(a.place.cursor.Y-1, 1)
	case "left", "h":
		a.place.cursor.X = max(a.place.cursor.X-1, 1)
	case "right", "l":
		a.place.cursor.X = min(a.place.cursor.X+1, size)
	case "tab":
		a.place.direction = a.place.direction.Rotate(models.TurnRight)
	case "shift+tab":
		a.place.direction = a.place.direction.Rotate(models.TurnLeft)
	case "enter", " ":
		if a.state.CellAt(a.place.cursor) != models.Empty {
			a.setError(fmt.Sprintf("Cell %s is occupied", a.place.cursor))
			return a, nil
		}
		text := a.place.command()
		a.place = placement{}
		return a, a.execute(text)
	}
	return a, nil
}

// startPlacement enters placement mode. A robot placement starts on the
// robot's cell facing SOUTH.
func (a *App) startPlacement(kind placingKind) {
	if a.state.Size < 1 {
		return
	}
	a.place = placement{
		kind:      kind,
		direction: models.South,
		cursor:    models.Position{X: 1, Y: 1},
	}
	if kind == placingRobot && a.state.Robot != nil {
		a.place.cursor = a.state.Robot.Position
	}
	a.setMessage("Arrows pick a cell, enter places, esc cancels")
}

func (a *App) applyState(st models.State) {
	sizeChanged := st.Size != a.state.Size
	a.state = st
	if sizeChanged {
		a.resize()
	}
	a.history.SetContent(renderHistory(st.History))
	a.history.GotoBottom()
}

func (a *App) resize() {
	boardWidth := a.state.Size*3 + len(fmt.Sprint(a.state.Size)) + 1 + 4
	a.history.Width = max(a.width-boardWidth-6, 20)
	a.history.Height = max(a.height-9, 5)
}

func (a *App) renderHelp() {
	out, err := RenderReference(max(a.width-4, 40))
	if err != nil {
		out = Reference
	}
	a.help = out
}

func (a *App) setMessage(m string) {
	a.message = m
	a.isError = false
}

func (a *App) setError(m string) {
	a.message = m
	a.isError = true
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("🤖 Toy Robot")
	if a.label != "" {
		header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(a.label)
	}
	b.WriteString(header + "\n\n")

	if a.showHelp {
		b.WriteString(a.help)
	} else {
		board := panelStyle.Render(panelTitleStyle.Render("Board") + "\n" + renderBoard(a.state, a.place))
		hist := panelStyle.Render(panelTitleStyle.Render("History") + "\n" + a.history.View())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, " ", hist))
	}
	b.WriteString("\n")

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if a.isError {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString(msgStyle.Render(a.message))
	}
	b.WriteString("\n")

	b.WriteString(a.cmdbar.View(a.width) + "\n")
	b.WriteString(statusBarStyle.Width(max(a.width, 1)).Render(a.statusLine()))

	return b.String()
}

func (a *App) statusLine() string {
	robot := "no robot"
	if a.state.Robot != nil {
		robot = "robot " + a.state.Robot.Report()
	}

	var keys string
	switch {
	case a.cmdbar.Focused():
		keys = "enter: run • tab: complete • esc: cancel"
	case a.place.kind == placingRobot:
		keys = fmt.Sprintf("placing robot %s facing %s • tab: turn • enter: place • esc: cancel", a.place.cursor, a.place.direction)
	case a.place.kind == placingWall:
		keys = fmt.Sprintf("placing wall %s • enter: place • esc: cancel", a.place.cursor)
	case a.showHelp:
		keys = "?: close help"
	default:
		keys = "↑/f: move • ←/→: turn • r: report • p: robot • w: wall • :: command • ?: help • q: quit"
	}
	return fmt.Sprintf("%dx%d • %s • %s", a.state.Size, a.state.Size, robot, keys)
}

func (a *App) fetchState(note string) tea.Cmd {
	session := a.session
	return func() tea.Msg {
		st, err := session.State()
		return stateMsg{state: st, err: err, note: note}
	}
}

func (a *App) execute(text string) tea.Cmd {
	session := a.session
	return func() tea.Msg {
		entry, err := session.ExecuteText(text)
		st, stateErr := session.State()
		return commandMsg{text: text, entry: entry, err: err, state: st, stateErr: stateErr}
	}
}

func (a *App) reset() tea.Cmd {
	session := a.session
	fetch := a.fetchState("Session reset")
	return func() tea.Msg {
		if err := session.Reset(); err != nil {
			return stateMsg{err: err}
		}
		return fetch()
	}
}
