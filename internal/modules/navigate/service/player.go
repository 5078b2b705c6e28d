package service

import (
	"context"
	"errors"
	"image"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
	apperrors "qrnav/internal/platform/errors"
)

// Player owns the one media source that may be open at a time. Every Start
// or Stop bumps the generation so frames requested for an older playback
// come back stale.
type Player struct {
	opener navout.MediaOpener
	logger hclog.Logger

	mu         sync.Mutex
	generation uint64
	source     navout.MediaSource
	ref        string
}

// NewPlayer accepts a nil opener for surfaces without an arrow canvas.
func NewPlayer(opener navout.MediaOpener, logger hclog.Logger) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Player{opener: opener, logger: logger.Named("player")}
}

// Start supersedes the current playback. The old source is released before
// the new one is opened. An empty ref leaves playback idle.
func (p *Player) Start(ctx context.Context, ref string) (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.generation++
	if ref == "" || p.opener == nil {
		return p.generation, false
	}
	source, err := p.opener.Open(ctx, ref)
	if err != nil {
		p.logger.Warn("media unavailable", "ref", ref, "error", err)
		return p.generation, false
	}
	p.source = source
	p.ref = ref
	return p.generation, true
}

func (p *Player) Next(ctx context.Context, generation uint64) (image.Image, domain.PlaybackStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if generation != p.generation {
		return nil, domain.PlaybackStale
	}
	if p.source == nil {
		return nil, domain.PlaybackFinished
	}
	img, err := p.source.Next(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrEndOfMedia) {
			p.logger.Warn("media frame failed", "ref", p.ref, "error", err)
		}
		p.releaseLocked()
		return nil, domain.PlaybackFinished
	}
	return img, domain.PlaybackPlaying
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.generation++
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source != nil
}

func (p *Player) releaseLocked() {
	if p.source == nil {
		return
	}
	if err := p.source.Close(); err != nil {
		p.logger.Debug("media close failed", "ref", p.ref, "error", err)
	}
	p.source = nil
	p.ref = ""
}
