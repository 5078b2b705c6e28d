package out

import (
	"context"
	"image"

	"qrnav/internal/modules/scan/domain"
)

type CameraOpener interface {
	Open(ctx context.Context) (Camera, error)
}

// Camera is a pull-based frame source. Close releases the device and is
// safe to call once per successful Open.
type Camera interface {
	NextFrame(ctx context.Context) (domain.Frame, error)
	Close() error
}

// Decoder returns the codes visible in img, duplicates collapsed, in an
// order that is stable for the same image.
type Decoder interface {
	Decode(ctx context.Context, img image.Image) ([]string, error)
}

type Catalog interface {
	Known(ctx context.Context, checkpointID string) bool
}

type Session interface {
	Active() bool
	Destination() string
}

type Listener interface {
	Preview(ctx context.Context, frame domain.Frame)
	Trigger(ctx context.Context, event domain.CheckpointEvent, destinationID string)
}
