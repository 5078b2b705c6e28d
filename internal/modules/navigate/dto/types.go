package dto

import (
	"image"
	"time"
)

type SelectInput struct {
	DestinationID string
}

type DisplayOutput struct {
	Text       string
	MediaRef   string
	Generation uint64
	Playing    bool
	Spoken     bool
	RunID      string
}

type GuidanceOutput struct {
	Kind          string
	CheckpointID  string
	DestinationID string
	Text          string
	MediaRef      string
	ObservedAt    time.Time
}

type Event struct {
	Kind     string
	RunID    string
	Frame    image.Image
	Guidance GuidanceOutput
	Err      error
}

type PlaybackFrame struct {
	Generation uint64
	Image      image.Image
	Status     string
}

type StatusOutput struct {
	Destination string
	Scanning    bool
	RunID       string
	Voice       bool
}

const (
	EventPreview  = "preview"
	EventGuidance = "guidance"
	EventStopped  = "stopped"

	PlaybackPlaying  = "playing"
	PlaybackFinished = "finished"
	PlaybackStale    = "stale"
)
