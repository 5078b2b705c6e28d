package service

import (
	"context"
	"sync/atomic"

	"qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
)

// Coordinator turns guidance into the three outputs: text, arrow playback and
// an optional spoken announcement.
type Coordinator struct {
	player  *Player
	speaker navout.Speaker
	voice   atomic.Bool
}

func NewCoordinator(player *Player, speaker navout.Speaker, voice bool) *Coordinator {
	c := &Coordinator{player: player, speaker: speaker}
	c.voice.Store(voice && speaker != nil)
	return c
}

func (c *Coordinator) Dispatch(ctx context.Context, g domain.Guidance) domain.Display {
	if g.Kind == domain.GuidanceNoDestination {
		return domain.Display{Text: domain.PromptNoDestination}
	}
	text := domain.DirectionText(g.DestinationID, g.Text)
	generation, playing := c.player.Start(ctx, g.MediaRef)
	display := domain.Display{
		Text:       text,
		MediaRef:   g.MediaRef,
		Generation: generation,
		Playing:    playing,
	}
	if c.voice.Load() {
		c.speaker.Say(text)
		display.Spoken = true
	}
	return display
}

func (c *Coordinator) Reset() {
	c.player.Stop()
}

func (c *Coordinator) SetVoice(enabled bool) bool {
	enabled = enabled && c.speaker != nil
	c.voice.Store(enabled)
	return enabled
}

func (c *Coordinator) Voice() bool {
	return c.voice.Load()
}
