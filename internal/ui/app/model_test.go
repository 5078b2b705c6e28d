package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"qrnav/internal/modules/navigate/dto"
)

type fakeNav struct {
	current    string
	navigated  []string
	dispatched []dto.GuidanceOutput
	resets     int
	voice      bool
	events     chan dto.Event
}

func newFakeNav() *fakeNav {
	return &fakeNav{events: make(chan dto.Event, 4)}
}

func (f *fakeNav) Initial() dto.DisplayOutput {
	return dto.DisplayOutput{Text: "Please select a destination and scan QR code."}
}

func (f *fakeNav) Destinations(context.Context) []string {
	return []string{"Kitchen", "Hall", "Washroom"}
}

func (f *fakeNav) Navigate(_ context.Context, destination string) (dto.DisplayOutput, error) {
	if destination == "Garage" {
		return dto.DisplayOutput{}, errors.New("unknown destination")
	}
	f.navigated = append(f.navigated, destination)
	f.current = "run-" + destination
	return dto.DisplayOutput{Text: "Navigating to " + destination + "...", RunID: f.current}, nil
}

func (f *fakeNav) Reset(context.Context) dto.DisplayOutput {
	f.resets++
	f.current = ""
	return f.Initial()
}

func (f *fakeNav) Events() <-chan dto.Event { return f.events }

func (f *fakeNav) Accept(runID string) bool { return runID != "" && runID == f.current }

func (f *fakeNav) Dispatch(_ context.Context, g dto.GuidanceOutput) dto.DisplayOutput {
	f.dispatched = append(f.dispatched, g)
	return dto.DisplayOutput{
		Text:       "Direction to " + g.DestinationID + ": " + g.Text,
		MediaRef:   g.MediaRef,
		Generation: uint64(len(f.dispatched)),
		Playing:    true,
	}
}

func (f *fakeNav) NextFrame(_ context.Context, generation uint64) dto.PlaybackFrame {
	return dto.PlaybackFrame{Generation: generation, Status: dto.PlaybackFinished}
}

func (f *fakeNav) SetVoice(enabled bool) bool {
	f.voice = enabled
	return enabled
}

func (f *fakeNav) Status() dto.StatusOutput { return dto.StatusOutput{Voice: f.voice} }

func loaded(t *testing.T, nav *fakeNav) Model {
	t.Helper()
	m := NewModel(nav, 0)
	next, _ := m.Update(destinationsLoadedMsg{destinations: nav.Destinations(context.Background())})
	next, _ = next.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(k)
	return next.(Model)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNumberKeySelectsDestination(t *testing.T) {
	t.Parallel()
	nav := newFakeNav()
	m := press(t, loaded(t, nav), runes("2"))

	if len(nav.navigated) != 1 || nav.navigated[0] != "Hall" {
		t.Fatalf("expected navigate to Hall, got %v", nav.navigated)
	}
	if !m.scanning || m.guidance.Text() != "Navigating to Hall..." {
		t.Fatalf("unexpected state: scanning=%v text=%q", m.scanning, m.guidance.Text())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if nav.navigated[len(nav.navigated)-1] != "Washroom" {
		t.Fatalf("arrow selection should pick Washroom, got %v", nav.navigated)
	}
}

func TestGuidanceEventFromCurrentRunIsDispatched(t *testing.T) {
	t.Parallel()
	nav := newFakeNav()
	m := press(t, loaded(t, nav), runes("1"))

	next, cmd := m.Update(eventMsg{event: dto.Event{
		Kind:  dto.EventGuidance,
		RunID: "run-Kitchen",
		Guidance: dto.GuidanceOutput{
			Kind:          "resolved",
			CheckpointID:  "Checkpoint 1",
			DestinationID: "Kitchen",
			Text:          "Go right for 5 meters",
			MediaRef:      "right.mp4",
		},
	}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("event bridge must be re-armed")
	}
	if len(nav.dispatched) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(nav.dispatched))
	}
	if m.guidance.Text() != "Direction to Kitchen: Go right for 5 meters" || !m.guidance.Playing() {
		t.Fatalf("guidance not shown: %q playing=%v", m.guidance.Text(), m.guidance.Playing())
	}
	if m.lastTrigger != "Checkpoint 1" {
		t.Fatalf("last trigger not recorded: %q", m.lastTrigger)
	}
}

func TestEventsFromStaleRunAreDropped(t *testing.T) {
	t.Parallel()
	nav := newFakeNav()
	m := press(t, loaded(t, nav), runes("1"))
	m = press(t, m, runes("r"))

	next, cmd := m.Update(eventMsg{event: dto.Event{
		Kind:     dto.EventGuidance,
		RunID:    "run-Kitchen",
		Guidance: dto.GuidanceOutput{Kind: "resolved", DestinationID: "Kitchen", Text: "Go right"},
	}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("event bridge must be re-armed after a dropped event")
	}
	if len(nav.dispatched) != 0 {
		t.Fatalf("stale guidance must not be dispatched")
	}
	if nav.resets != 1 || m.guidance.Text() != nav.Initial().Text || m.scanning {
		t.Fatalf("reset did not restore the initial display: %q", m.guidance.Text())
	}
}

func TestStoppedEventSurfacesCaptureError(t *testing.T) {
	t.Parallel()
	nav := newFakeNav()
	m := press(t, loaded(t, nav), runes("3"))

	next, _ := m.Update(eventMsg{event: dto.Event{
		Kind:  dto.EventStopped,
		RunID: "run-Washroom",
		Err:   errors.New("capture device unavailable"),
	}})
	m = next.(Model)
	if m.scanning || !m.failed || !strings.Contains(m.status, "capture device unavailable") {
		t.Fatalf("stopped event not surfaced: scanning=%v status=%q", m.scanning, m.status)
	}
	if !strings.Contains(m.View(), "capture device unavailable") {
		t.Fatalf("status bar should show the error")
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	nav := newFakeNav()
	m := loaded(t, nav)

	next, _ := m.executePalette("voice on")
	m = next.(Model)
	if !nav.voice || !m.voice {
		t.Fatalf("voice should be enabled")
	}
	next, _ = m.executePalette("navigate kitchen")
	m = next.(Model)
	if len(nav.navigated) != 1 || nav.navigated[0] != "Kitchen" {
		t.Fatalf("palette navigate should match case-insensitively, got %v", nav.navigated)
	}
	next, _ = m.executePalette("navigate Garage")
	m = next.(Model)
	if !m.failed || m.destination != "Kitchen" {
		t.Fatalf("unknown destination should fail without changing selection")
	}
	next, _ = m.executePalette("reset")
	m = next.(Model)
	if nav.resets != 1 || m.destination != "" {
		t.Fatalf("palette reset not applied")
	}
}

func TestWaitForEventReportsClosedChannel(t *testing.T) {
	t.Parallel()
	events := make(chan dto.Event, 1)
	events <- dto.Event{Kind: dto.EventPreview, RunID: "r"}
	close(events)

	if msg, ok := waitForEvent(events)().(eventMsg); !ok || msg.event.RunID != "r" {
		t.Fatalf("expected the queued event first")
	}
	if _, ok := waitForEvent(events)().(eventsClosedMsg); !ok {
		t.Fatalf("expected closed message")
	}
}
