package in

import (
	"context"

	"qrnav/internal/modules/scan/dto"
)

// Gate is polled once per frame. Run returns soon after Active reports false.
type Gate interface {
	Active() bool
	Destination() string
}

// Sink receives scanner output on the scanner goroutine. Implementations
// must hand it over to their own context instead of touching UI state.
type Sink interface {
	Preview(ctx context.Context, frame dto.FrameOutput)
	Trigger(ctx context.Context, trigger dto.TriggerOutput)
}

type Usecase interface {
	Run(ctx context.Context, gate Gate, sink Sink) error
	ResetCooldown(ctx context.Context)
	Inspect(ctx context.Context, input dto.InspectInput) ([]dto.CodeOutput, error)
}
