package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qrnav/internal/modules/navigate/dto"
	"qrnav/internal/ui/components"
	"qrnav/internal/ui/theme"
	guidanceview "qrnav/internal/ui/views/guidance"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// navigationPort is what the UI drives. Everything except Events is called
// from Update, which makes the Bubble Tea loop the single UI context.
type navigationPort interface {
	Initial() dto.DisplayOutput
	Destinations(ctx context.Context) []string
	Navigate(ctx context.Context, destination string) (dto.DisplayOutput, error)
	Reset(ctx context.Context) dto.DisplayOutput
	Events() <-chan dto.Event
	Accept(runID string) bool
	Dispatch(ctx context.Context, guidance dto.GuidanceOutput) dto.DisplayOutput
	NextFrame(ctx context.Context, generation uint64) dto.PlaybackFrame
	SetVoice(enabled bool) bool
	Status() dto.StatusOutput
}

// ─── async messages ───────────────────────────────────────────────────────────

type destinationsLoadedMsg struct{ destinations []string }

type eventMsg struct{ event dto.Event }

type eventsClosedMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Pick    key.Binding
	Move    key.Binding
	Enter   key.Binding
	Reset   key.Binding
	Voice   key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "navigate")),
		Move:    key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "choose")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "navigate")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Voice:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle voice")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pick, k.Move, k.Enter},
		{k.Reset, k.Voice},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns destination selection, the
// scanner event bridge, the help overlay and the command palette. Rendering of
// the guidance slots is delegated to the guidance view.
type Model struct {
	nav    navigationPort
	events <-chan dto.Event

	guidance guidanceview.Model

	destinations []string
	cursor       int

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette

	destination string
	scanning    bool
	voice       bool
	lastTrigger string
	status      string
	failed      bool
	width       int
	height      int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(nav navigationPort, frameInterval time.Duration) Model {
	guidance := guidanceview.New(nav, frameInterval)
	guidance.SetText(nav.Initial().Text)
	return Model{
		nav:      nav,
		events:   nav.Events(),
		guidance: guidance,
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(nil),
		voice:    nav.Status().Voice,
		status:   "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadDestinationsCmd(),
		waitForEvent(m.events),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all key input while open. Scanner events and
	// playback ticks keep flowing underneath it.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, tea.Batch(cmds...)

	case destinationsLoadedMsg:
		m.destinations = msg.destinations
		m.palette = components.NewPalette(msg.destinations)
		m.palette.SetWidth(min(m.width-4, 80))
		return m, nil

	case eventMsg:
		next, cmd := m.handleEvent(msg.event)
		return next, tea.Batch(append(cmds, cmd)...)

	case eventsClosedMsg:
		m.scanning = false
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		case key.Matches(msg, m.keys.Palette):
			cmds = append(cmds, m.palette.Open())
		case key.Matches(msg, m.keys.Pick):
			n, _ := strconv.Atoi(msg.String())
			if n >= 1 && n <= len(m.destinations) {
				m.cursor = n - 1
				m.navigate(m.destinations[n-1])
			}
		case key.Matches(msg, m.keys.Move):
			if len(m.destinations) > 0 {
				step := 1
				if msg.String() == "left" {
					step = len(m.destinations) - 1
				}
				m.cursor = (m.cursor + step) % len(m.destinations)
			}
		case key.Matches(msg, m.keys.Enter):
			if m.cursor < len(m.destinations) {
				m.navigate(m.destinations[m.cursor])
			}
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Voice):
			m.setVoice(!m.voice)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.guidance, cmd = m.guidance.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleEvent applies one scanner event. Events from a run that is no longer
// current are dropped; the bridge is always re-armed.
func (m Model) handleEvent(ev dto.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.events)}
	if !m.nav.Accept(ev.RunID) {
		return m, tea.Batch(cmds...)
	}

	switch ev.Kind {
	case dto.EventPreview:
		m.guidance.SetPreview(ev.Frame)
	case dto.EventGuidance:
		display := m.nav.Dispatch(context.Background(), ev.Guidance)
		cmds = append(cmds, m.guidance.Show(display))
		m.lastTrigger = ev.Guidance.CheckpointID
		m.failed = false
		m.status = display.Text
	case dto.EventStopped:
		m.scanning = false
		if ev.Err != nil {
			m.failed = true
			m.status = "scanning stopped: " + ev.Err.Error()
		} else {
			m.status = "scanning stopped"
		}
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.guidance.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	parts := make([]string, len(m.destinations))
	for i, d := range m.destinations {
		label := fmt.Sprintf(" %d %s ", i+1, d)
		style := lipgloss.NewStyle().Foreground(theme.Accent(d))
		switch {
		case d == m.destination:
			style = style.Bold(true).Reverse(true)
		case i == m.cursor:
			style = style.Underline(true)
		}
		parts[i] = style.Render(label)
	}
	bar := "qrnav  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	var left string
	if m.scanning {
		left = theme.Hot.Render("● scanning " + m.destination)
	} else {
		left = theme.Muted.Render("○ idle")
	}
	if m.lastTrigger != "" {
		left += "  " + theme.Title.Render("@ "+m.lastTrigger)
	}
	if m.failed {
		left += "  " + theme.Alert.Render(m.status)
	} else {
		left += "  " + m.status
	}

	voice := "voice off"
	if m.voice {
		voice = "voice on"
	}
	right := theme.Muted.Render(voice + "  ?:help  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch strings.ToLower(parts[0]) {
	case "navigate":
		if len(parts) < 2 {
			m.status = "usage: navigate <destination>"
			return m, nil
		}
		dest := m.matchDestination(strings.Join(parts[1:], " "))
		for i, d := range m.destinations {
			if d == dest {
				m.cursor = i
			}
		}
		m.navigate(dest)
	case "reset":
		m.reset()
	case "voice":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: voice on|off"
			return m, nil
		}
		m.setVoice(parts[1] == "on")
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) navigate(destination string) {
	out, err := m.nav.Navigate(context.Background(), destination)
	if err != nil {
		m.failed = true
		m.status = "navigate: " + err.Error()
		return
	}
	m.destination = destination
	m.scanning = true
	m.failed = false
	m.guidance.SetDestination(destination)
	m.guidance.SetText(out.Text)
	m.status = "scanning for checkpoints"
}

func (m *Model) reset() {
	out := m.nav.Reset(context.Background())
	m.guidance.Clear(out)
	m.destination = ""
	m.scanning = false
	m.lastTrigger = ""
	m.failed = false
	m.status = "reset"
}

func (m *Model) setVoice(enabled bool) {
	m.voice = m.nav.SetVoice(enabled)
	switch {
	case m.voice:
		m.status = "voice on"
	case enabled:
		m.status = "voice unavailable"
	default:
		m.status = "voice off"
	}
}

// matchDestination lets palette input ignore case.
func (m Model) matchDestination(input string) string {
	for _, d := range m.destinations {
		if strings.EqualFold(d, input) {
			return d
		}
	}
	return input
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.guidance, _ = m.guidance.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadDestinationsCmd() tea.Cmd {
	return func() tea.Msg {
		return destinationsLoadedMsg{destinations: m.nav.Destinations(context.Background())}
	}
}

// waitForEvent blocks on the scanner channel and is re-issued after every
// delivered event.
func waitForEvent(events <-chan dto.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}
