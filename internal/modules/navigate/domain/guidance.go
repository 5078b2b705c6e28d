package domain

import (
	"fmt"
	"image"
	"time"
)

const (
	PromptInitial       = "Please select a destination and scan QR code."
	PromptNoDestination = "Please select a destination."
)

func NavigatingText(destination string) string {
	return fmt.Sprintf("Navigating to %s...", destination)
}

func DirectionText(destination, text string) string {
	return fmt.Sprintf("Direction to %s: %s", destination, text)
}

type GuidanceKind string

const (
	GuidanceNoDestination GuidanceKind = "no_destination"
	GuidanceUnknownPair   GuidanceKind = "unknown_pair"
	GuidanceResolved      GuidanceKind = "resolved"
)

type Guidance struct {
	Kind          GuidanceKind
	CheckpointID  string
	DestinationID string
	Text          string
	MediaRef      string
	ObservedAt    time.Time
}

type Trigger struct {
	CheckpointID  string
	DestinationID string
	ObservedAt    time.Time
}

// Display is what the instruction slot and arrow canvas should show after a
// dispatch.
type Display struct {
	Text       string
	MediaRef   string
	Generation uint64
	Playing    bool
	Spoken     bool
}

type EventKind string

const (
	EventPreview  EventKind = "preview"
	EventGuidance EventKind = "guidance"
	EventStopped  EventKind = "stopped"
)

// Event crosses from the scanner goroutine to the UI. RunID lets the
// receiver drop events from a run that was reset.
type Event struct {
	Kind     EventKind
	RunID    string
	Frame    image.Image
	Guidance Guidance
	Err      error
}

type PlaybackStatus string

const (
	PlaybackPlaying  PlaybackStatus = "playing"
	PlaybackFinished PlaybackStatus = "finished"
	PlaybackStale    PlaybackStatus = "stale"
)
