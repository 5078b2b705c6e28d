package service

import (
	"context"
	"fmt"
	"image"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
	apperrors "qrnav/internal/platform/errors"
	"qrnav/internal/platform/id"
)

const eventBuffer = 16

// Navigator owns the session state and the scanner goroutine. Everything the
// scanner produces reaches the caller through Events.
type Navigator struct {
	state    *domain.State
	scanner  navout.ScanRunner
	resolver navout.Resolver
	ids      id.Generator
	logger   hclog.Logger

	root     context.Context
	shutdown context.CancelFunc
	events   chan domain.Event

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func NewNavigator(state *domain.State, scanner navout.ScanRunner, resolver navout.Resolver, ids id.Generator, logger hclog.Logger) *Navigator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	root, shutdown := context.WithCancel(context.Background())
	return &Navigator{
		state:    state,
		scanner:  scanner,
		resolver: resolver,
		ids:      ids,
		logger:   logger.Named("navigator"),
		root:     root,
		shutdown: shutdown,
		events:   make(chan domain.Event, eventBuffer),
	}
}

func (n *Navigator) Events() <-chan domain.Event {
	return n.events
}

func (n *Navigator) Destinations(ctx context.Context) []string {
	return n.resolver.Destinations(ctx)
}

// SelectDestination records the destination and starts scanning unless a run
// is already active. It reports whether a new run was started.
func (n *Navigator) SelectDestination(ctx context.Context, destination string) (string, bool, error) {
	if !n.resolver.HasDestination(ctx, destination) {
		return "", false, fmt.Errorf("unknown destination %q: %w", destination, apperrors.ErrInvalidInput)
	}
	n.state.Select(destination)
	runID, started := n.startScan()
	if started {
		n.logger.Info("scan started", "run", runID, "destination", destination)
	}
	return runID, started, nil
}

func (n *Navigator) startScan() (string, bool) {
	if n.root.Err() != nil {
		return "", false
	}
	runID := n.ids.New()
	if !n.state.BeginScan(runID) {
		return n.state.Snapshot().RunID, false
	}
	n.mu.Lock()
	prev := n.done
	ctx, cancel := context.WithCancel(n.root)
	done := make(chan struct{})
	n.cancel, n.done = cancel, done
	n.mu.Unlock()

	go n.run(ctx, cancel, runID, prev, done)
	return runID, true
}

func (n *Navigator) run(ctx context.Context, cancel context.CancelFunc, runID string, prev <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer cancel()
	// the previous run may still hold the camera
	if prev != nil {
		<-prev
	}
	if ctx.Err() != nil {
		n.state.EndScan(runID)
		return
	}
	// no earlier scanner is left to write entries, so this clear sticks
	n.scanner.ResetCooldown(ctx)
	err := n.scanner.Run(ctx, runGate{state: n.state, runID: runID}, runSink{n: n, runID: runID})
	n.state.EndScan(runID)
	if err != nil {
		n.logger.Error("scan stopped", "run", runID, "error", err)
	} else {
		n.logger.Debug("scan finished", "run", runID)
	}
	n.deliver(n.root, domain.Event{Kind: domain.EventStopped, RunID: runID, Err: err})
}

// Reset stops the current run without waiting for it. The next run waits for
// the camera to be released.
func (n *Navigator) Reset(ctx context.Context) {
	prev := n.state.Reset()
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.mu.Unlock()
	n.scanner.ResetCooldown(ctx)
	if prev != "" {
		n.logger.Info("navigation reset", "run", prev)
	}
}

func (n *Navigator) Accept(runID string) bool {
	return n.state.Current(runID)
}

func (n *Navigator) Snapshot() domain.Snapshot {
	return n.state.Snapshot()
}

// Close stops scanning, waits until the camera is released and closes the
// event channel.
func (n *Navigator) Close() {
	n.closeOnce.Do(func() {
		n.Reset(context.Background())
		n.shutdown()
		n.mu.Lock()
		done := n.done
		n.mu.Unlock()
		// runs are chained, so the last one finishing means all did
		if done != nil {
			<-done
		}
		close(n.events)
	})
}

func (n *Navigator) deliver(ctx context.Context, ev domain.Event) bool {
	select {
	case n.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

type runGate struct {
	state *domain.State
	runID string
}

func (g runGate) Active() bool {
	return g.state.RunActive(g.runID)
}

func (g runGate) Destination() string {
	return g.state.Destination()
}

type runSink struct {
	n     *Navigator
	runID string
}

// Preview drops the frame when the receiver is behind.
func (s runSink) Preview(_ context.Context, frame image.Image) {
	select {
	case s.n.events <- domain.Event{Kind: domain.EventPreview, RunID: s.runID, Frame: frame}:
	default:
	}
}

func (s runSink) Trigger(ctx context.Context, trigger domain.Trigger) {
	guidance, err := s.n.resolver.Resolve(ctx, trigger)
	if err != nil {
		s.n.logger.Warn("resolve failed", "checkpoint", trigger.CheckpointID, "error", err)
		return
	}
	if !s.n.deliver(ctx, domain.Event{Kind: domain.EventGuidance, RunID: s.runID, Guidance: guidance}) {
		s.n.logger.Debug("guidance dropped", "run", s.runID, "checkpoint", trigger.CheckpointID)
	}
}
