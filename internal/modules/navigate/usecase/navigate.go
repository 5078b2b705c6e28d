package usecase

import (
	"context"
	"strings"
	"sync"

	"qrnav/internal/modules/navigate/domain"
	"qrnav/internal/modules/navigate/dto"
	navin "qrnav/internal/modules/navigate/port/in"
	"qrnav/internal/modules/navigate/service"
)

type Interactor struct {
	navigator   *service.Navigator
	coordinator *service.Coordinator
	player      *service.Player

	once      sync.Once
	events    chan dto.Event
	relayDone chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewInteractor(navigator *service.Navigator, coordinator *service.Coordinator, player *service.Player) navin.Usecase {
	return &Interactor{
		navigator:   navigator,
		coordinator: coordinator,
		player:      player,
		relayDone:   make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (i *Interactor) Initial() dto.DisplayOutput {
	return dto.DisplayOutput{Text: domain.PromptInitial}
}

func (i *Interactor) Destinations(ctx context.Context) []string {
	return i.navigator.Destinations(ctx)
}

func (i *Interactor) SelectDestination(ctx context.Context, input dto.SelectInput) (dto.DisplayOutput, error) {
	destination := strings.TrimSpace(input.DestinationID)
	runID, _, err := i.navigator.SelectDestination(ctx, destination)
	if err != nil {
		return dto.DisplayOutput{}, err
	}
	return dto.DisplayOutput{Text: domain.NavigatingText(destination), RunID: runID}, nil
}

func (i *Interactor) Reset(ctx context.Context) dto.DisplayOutput {
	i.navigator.Reset(ctx)
	i.coordinator.Reset()
	return i.Initial()
}

// Events converts the navigator's channel once; later calls share it.
func (i *Interactor) Events() <-chan dto.Event {
	i.once.Do(func() {
		i.events = make(chan dto.Event)
		go func() {
			defer close(i.relayDone)
			defer close(i.events)
			for ev := range i.navigator.Events() {
				select {
				case i.events <- toEventDTO(ev):
				case <-i.done:
					return
				}
			}
		}()
	})
	return i.events
}

func (i *Interactor) Accept(runID string) bool {
	return i.navigator.Accept(runID)
}

func (i *Interactor) Dispatch(ctx context.Context, g dto.GuidanceOutput) dto.DisplayOutput {
	display := i.coordinator.Dispatch(ctx, domain.Guidance{
		Kind:          domain.GuidanceKind(g.Kind),
		CheckpointID:  g.CheckpointID,
		DestinationID: g.DestinationID,
		Text:          g.Text,
		MediaRef:      g.MediaRef,
		ObservedAt:    g.ObservedAt,
	})
	return dto.DisplayOutput{
		Text:       display.Text,
		MediaRef:   display.MediaRef,
		Generation: display.Generation,
		Playing:    display.Playing,
		Spoken:     display.Spoken,
	}
}

func (i *Interactor) NextFrame(ctx context.Context, generation uint64) dto.PlaybackFrame {
	img, status := i.player.Next(ctx, generation)
	return dto.PlaybackFrame{Generation: generation, Image: img, Status: string(status)}
}

func (i *Interactor) SetVoice(enabled bool) bool {
	return i.coordinator.SetVoice(enabled)
}

func (i *Interactor) Status() dto.StatusOutput {
	snap := i.navigator.Snapshot()
	return dto.StatusOutput{
		Destination: snap.Destination,
		Scanning:    snap.Scanning,
		RunID:       snap.RunID,
		Voice:       i.coordinator.Voice(),
	}
}

// Close stops scanning and playback. The Events channel is closed once the
// relay has exited, whether or not anyone is still reading it.
func (i *Interactor) Close() error {
	i.closeOnce.Do(func() {
		close(i.done)
		i.once.Do(func() {
			i.events = make(chan dto.Event)
			close(i.events)
			close(i.relayDone)
		})
		i.navigator.Close()
		<-i.relayDone
		i.player.Stop()
	})
	return nil
}

func toEventDTO(ev domain.Event) dto.Event {
	return dto.Event{
		Kind:  string(ev.Kind),
		RunID: ev.RunID,
		Frame: ev.Frame,
		Guidance: dto.GuidanceOutput{
			Kind:          string(ev.Guidance.Kind),
			CheckpointID:  ev.Guidance.CheckpointID,
			DestinationID: ev.Guidance.DestinationID,
			Text:          ev.Guidance.Text,
			MediaRef:      ev.Guidance.MediaRef,
			ObservedAt:    ev.Guidance.ObservedAt,
		},
		Err: ev.Err,
	}
}
