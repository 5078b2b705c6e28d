package guidance

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qrnav/internal/modules/navigate/dto"
	"qrnav/internal/ui/components"
	"qrnav/internal/ui/theme"
)

// PlaybackPort is the slice of the navigation API this view needs.
type PlaybackPort interface {
	NextFrame(ctx context.Context, generation uint64) dto.PlaybackFrame
}

type tickMsg struct{ generation uint64 }

type frameMsg struct{ frame dto.PlaybackFrame }

// Model renders the three guidance slots: instruction text, the arrow canvas
// and the camera preview. It also paces arrow playback.
type Model struct {
	port     PlaybackPort
	interval time.Duration

	text        string
	destination string
	arrow       image.Image
	preview     image.Image
	generation  uint64
	playing     bool

	width  int
	height int
}

func New(port PlaybackPort, interval time.Duration) Model {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return Model{port: port, interval: interval}
}

// Show applies a dispatched display. A new generation replaces the arrow and
// starts the tick loop for it.
func (m *Model) Show(d dto.DisplayOutput) tea.Cmd {
	m.text = d.Text
	if d.Generation == 0 {
		return nil
	}
	m.generation = d.Generation
	m.playing = d.Playing
	m.arrow = nil
	if !m.playing {
		return nil
	}
	return m.tick(m.generation)
}

func (m *Model) SetText(text string) { m.text = text }

func (m *Model) SetDestination(destination string) { m.destination = destination }

func (m *Model) SetPreview(img image.Image) { m.preview = img }

// Clear returns every slot to its initial state. Ticks still in flight carry
// an old generation and are dropped.
func (m *Model) Clear(d dto.DisplayOutput) {
	m.text = d.Text
	m.destination = ""
	m.arrow = nil
	m.preview = nil
	m.playing = false
	m.generation = 0
}

func (m Model) Text() string       { return m.text }
func (m Model) Playing() bool      { return m.playing }
func (m Model) Arrow() image.Image { return m.arrow }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if !m.playing || msg.generation != m.generation {
			return m, nil
		}
		return m, m.nextFrameCmd(msg.generation)

	case frameMsg:
		if msg.frame.Generation != m.generation {
			return m, nil
		}
		switch msg.frame.Status {
		case dto.PlaybackPlaying:
			m.arrow = msg.frame.Image
			return m, m.tick(m.generation)
		default:
			// the last frame stays on the canvas
			m.playing = false
		}
	}
	return m, nil
}

func (m Model) View() string {
	border := theme.Pane.BorderForeground(theme.Surface1)
	if m.destination != "" {
		border = theme.Pane.BorderForeground(theme.Accent(m.destination))
	}

	textPane := border.
		Width(max(m.width-2, 1)).
		Render(theme.Title.Render(m.text))

	canvasH := m.height - lipgloss.Height(textPane) - 2
	if canvasH < 1 {
		canvasH = 1
	}
	arrowW := m.width/2 - 4
	previewW := m.width - m.width/2 - 4

	arrowPane := theme.Pane.
		Width(max(arrowW+2, 1)).
		Render(components.RenderPicture(m.arrow, arrowW, canvasH, "no direction yet"))
	previewPane := theme.Pane.
		Width(max(previewW+2, 1)).
		Render(components.RenderPicture(m.preview, previewW, canvasH, "camera idle"))

	return lipgloss.JoinVertical(lipgloss.Left,
		textPane,
		lipgloss.JoinHorizontal(lipgloss.Top, arrowPane, previewPane),
	)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) tick(generation uint64) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m Model) nextFrameCmd(generation uint64) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return frameMsg{frame: dto.PlaybackFrame{Generation: generation, Status: dto.PlaybackFinished}}
		}
		return frameMsg{frame: m.port.NextFrame(context.Background(), generation)}
	}
}
