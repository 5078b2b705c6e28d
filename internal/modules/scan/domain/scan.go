package domain

import (
	"fmt"
	"image"
	"time"

	apperrors "qrnav/internal/platform/errors"
)

type Frame struct {
	Image      image.Image
	Seq        uint64
	CapturedAt time.Time
}

type CheckpointEvent struct {
	CheckpointID string
	ObservedAt   time.Time
}

// CaptureError reports an unusable camera. It ends the scanner loop and
// nothing else.
type CaptureError struct {
	Op     string
	Device string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("capture %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("capture %s %s: %v", e.Op, e.Device, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

func (e *CaptureError) Is(target error) bool {
	return target == apperrors.ErrCapture
}

// Code is one decoded payload and whether the route table knows it.
type Code struct {
	Text       string
	Checkpoint bool
}
