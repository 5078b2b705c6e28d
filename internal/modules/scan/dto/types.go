package dto

import (
	"image"
	"time"
)

type FrameOutput struct {
	Image      image.Image
	Seq        uint64
	CapturedAt time.Time
}

type TriggerOutput struct {
	CheckpointID  string
	DestinationID string
	ObservedAt    time.Time
}

type InspectInput struct {
	Image image.Image
}

type CodeOutput struct {
	Text       string
	Checkpoint bool
}
