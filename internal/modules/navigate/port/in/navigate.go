package in

import (
	"context"

	"qrnav/internal/modules/navigate/dto"
)

// Usecase is driven from a single UI context. Only Events is fed from the
// scanner goroutine.
type Usecase interface {
	Initial() dto.DisplayOutput
	Destinations(ctx context.Context) []string
	SelectDestination(ctx context.Context, input dto.SelectInput) (dto.DisplayOutput, error)
	Reset(ctx context.Context) dto.DisplayOutput
	Events() <-chan dto.Event
	Accept(runID string) bool
	Dispatch(ctx context.Context, guidance dto.GuidanceOutput) dto.DisplayOutput
	NextFrame(ctx context.Context, generation uint64) dto.PlaybackFrame
	SetVoice(enabled bool) bool
	Status() dto.StatusOutput
	Close() error
}
