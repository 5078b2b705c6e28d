package out

import (
	"context"
	"image"

	"qrnav/internal/modules/navigate/domain"
)

type Resolver interface {
	Resolve(ctx context.Context, trigger domain.Trigger) (domain.Guidance, error)
	Destinations(ctx context.Context) []string
	HasDestination(ctx context.Context, destinationID string) bool
}

type Gate interface {
	Active() bool
	Destination() string
}

type Sink interface {
	Preview(ctx context.Context, frame image.Image)
	Trigger(ctx context.Context, trigger domain.Trigger)
}

type ScanRunner interface {
	Run(ctx context.Context, gate Gate, sink Sink) error
	ResetCooldown(ctx context.Context)
}

// Speaker must return immediately.
type Speaker interface {
	Say(text string)
}

type MediaOpener interface {
	Open(ctx context.Context, ref string) (MediaSource, error)
}

// MediaSource yields sub-frames until apperrors.ErrEndOfMedia.
type MediaSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}
