package domain

import (
	"fmt"
	"strings"
)

const SchemaVersion = 1

// FallbackText is shown when a checkpoint has no direction for the selected
// destination.
const FallbackText = "No direction available."

type Key struct {
	CheckpointID  string
	DestinationID string
}

type Instruction struct {
	Text     string
	MediaRef string
}

type Entry struct {
	Key
	Instruction
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.CheckpointID) == "" {
		return fmt.Errorf("checkpoint id is required")
	}
	if strings.TrimSpace(e.DestinationID) == "" {
		return fmt.Errorf("destination id is required")
	}
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("instruction text is required for %s -> %s", e.CheckpointID, e.DestinationID)
	}
	return nil
}

type OutcomeKind string

const (
	OutcomeNoDestination OutcomeKind = "no_destination"
	OutcomeUnknownPair   OutcomeKind = "unknown_pair"
	OutcomeResolved      OutcomeKind = "resolved"
)

type Outcome struct {
	Kind          OutcomeKind
	CheckpointID  string
	DestinationID string
	Instruction   Instruction
}

// Table is the immutable (checkpoint, destination) -> instruction mapping.
type Table struct {
	entries      map[Key]Instruction
	checkpoints  map[string]struct{}
	destinations []string
	order        []Key
}

func NewTable(destinations []string, entries []Entry) (Table, error) {
	t := Table{
		entries:     make(map[Key]Instruction, len(entries)),
		checkpoints: map[string]struct{}{},
	}
	seenDest := map[string]struct{}{}
	addDest := func(id string) {
		if _, ok := seenDest[id]; ok {
			return
		}
		seenDest[id] = struct{}{}
		t.destinations = append(t.destinations, id)
	}
	for _, d := range destinations {
		if strings.TrimSpace(d) == "" {
			return Table{}, fmt.Errorf("destination id is required")
		}
		addDest(d)
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return Table{}, err
		}
		if _, dup := t.entries[e.Key]; dup {
			return Table{}, fmt.Errorf("duplicate instruction for %s -> %s", e.CheckpointID, e.DestinationID)
		}
		t.entries[e.Key] = e.Instruction
		t.checkpoints[e.CheckpointID] = struct{}{}
		t.order = append(t.order, e.Key)
		addDest(e.DestinationID)
	}
	return t, nil
}

func (t Table) Lookup(key Key) (Instruction, bool) {
	in, ok := t.entries[key]
	return in, ok
}

func (t Table) HasCheckpoint(id string) bool {
	_, ok := t.checkpoints[id]
	return ok
}

func (t Table) HasDestination(id string) bool {
	for _, d := range t.destinations {
		if d == id {
			return true
		}
	}
	return false
}

func (t Table) Destinations() []string {
	out := make([]string, len(t.destinations))
	copy(out, t.destinations)
	return out
}

func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, Entry{Key: k, Instruction: t.entries[k]})
	}
	return out
}

// Resolve never fails: a missing destination and a missing pair are both
// regular outcomes.
func (t Table) Resolve(checkpointID, destinationID string) Outcome {
	out := Outcome{CheckpointID: checkpointID, DestinationID: destinationID}
	if destinationID == "" {
		out.Kind = OutcomeNoDestination
		return out
	}
	in, ok := t.entries[Key{CheckpointID: checkpointID, DestinationID: destinationID}]
	if !ok {
		out.Kind = OutcomeUnknownPair
		out.Instruction = Instruction{Text: FallbackText}
		return out
	}
	out.Kind = OutcomeResolved
	out.Instruction = in
	return out
}

func DefaultDestinations() []string {
	return []string{"Kitchen", "Hall", "Washroom"}
}

func DefaultEntries() []Entry {
	e := func(cp, dest, text, media string) Entry {
		return Entry{Key: Key{CheckpointID: cp, DestinationID: dest}, Instruction: Instruction{Text: text, MediaRef: media}}
	}
	return []Entry{
		e("Checkpoint 1", "Kitchen", "Go right for 5 meters", "right.mp4"),
		e("Checkpoint 1", "Washroom", "Go left for 2 meters", "left.mp4"),
		e("Checkpoint 1", "Hall", "Go straight", "straight.mp4"),
		e("Checkpoint 2", "Kitchen", "Go straight for 3 meters", "straight.mp4"),
		e("Checkpoint 2", "Washroom", "Turn right and go 1 meter", "right.mp4"),
		e("Checkpoint 2", "Hall", "Turn left and go 4 meters", "left.mp4"),
	}
}

func DefaultTable() Table {
	t, err := NewTable(DefaultDestinations(), DefaultEntries())
	if err != nil {
		panic(err)
	}
	return t
}
