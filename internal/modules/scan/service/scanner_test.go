package service_test

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"qrnav/internal/modules/scan/domain"
	scanout "qrnav/internal/modules/scan/port/out"
	"qrnav/internal/modules/scan/service"
	apperrors "qrnav/internal/platform/errors"
)

// codeImage carries the codes a fake decoder should "see" in it.
type codeImage struct {
	*image.Gray
	codes []string
	err   error
}

func frameWith(codes ...string) codeImage {
	return codeImage{Gray: image.NewGray(image.Rect(0, 0, 2, 2)), codes: codes}
}

type fakeDecoder struct{}

func (fakeDecoder) Decode(_ context.Context, img image.Image) ([]string, error) {
	ci := img.(codeImage)
	return ci.codes, ci.err
}

type fakeCatalog map[string]bool

func (c fakeCatalog) Known(_ context.Context, id string) bool { return c[id] }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeCamera struct {
	frames  []codeImage
	failAt  int
	openErr error
	// onFrame runs after each frame is handed out
	onFrame func(i int)

	opened int
	closed int
	next   int
}

func (c *fakeCamera) Open(context.Context) (scanout.Camera, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opened++
	return c, nil
}

func (c *fakeCamera) NextFrame(ctx context.Context) (domain.Frame, error) {
	if c.failAt > 0 && c.next == c.failAt {
		return domain.Frame{}, errors.New("device unplugged")
	}
	if c.next >= len(c.frames) {
		return domain.Frame{}, apperrors.ErrEndOfMedia
	}
	i := c.next
	c.next++
	if c.onFrame != nil {
		defer c.onFrame(i)
	}
	return domain.Frame{Image: c.frames[i], Seq: uint64(i + 1)}, nil
}

func (c *fakeCamera) Close() error {
	c.closed++
	return nil
}

type fakeSession struct {
	mu          sync.Mutex
	active      bool
	destination string
}

func (s *fakeSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *fakeSession) Destination() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination
}

func (s *fakeSession) Stop() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

type trigger struct {
	checkpoint  string
	destination string
}

type recordingListener struct {
	previews int
	triggers []trigger
}

func (l *recordingListener) Preview(context.Context, domain.Frame) { l.previews++ }

func (l *recordingListener) Trigger(_ context.Context, ev domain.CheckpointEvent, dest string) {
	l.triggers = append(l.triggers, trigger{checkpoint: ev.CheckpointID, destination: dest})
}

func newScanner(cam *fakeCamera, clk *fakeClock) *service.Scanner {
	catalog := fakeCatalog{"Checkpoint 1": true, "Checkpoint 2": true}
	return service.NewScanner(cam, fakeDecoder{}, catalog, domain.NewTracker(3*time.Second), clk, nil)
}

func TestRunTriggersKnownCheckpointsInOrder(t *testing.T) {
	t.Parallel()
	cam := &fakeCamera{frames: []codeImage{
		frameWith(),
		frameWith("https://example.org", "Checkpoint 2", "Checkpoint 1"),
	}}
	listener := &recordingListener{}
	err := newScanner(cam, &fakeClock{}).Run(context.Background(), &fakeSession{active: true, destination: "Kitchen"}, listener)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if listener.previews != 2 {
		t.Fatalf("every frame must be previewed, got %d", listener.previews)
	}
	want := []trigger{{"Checkpoint 2", "Kitchen"}, {"Checkpoint 1", "Kitchen"}}
	if len(listener.triggers) != len(want) {
		t.Fatalf("expected %v, got %v", want, listener.triggers)
	}
	for i := range want {
		if listener.triggers[i] != want[i] {
			t.Fatalf("trigger %d: want %v got %v", i, want[i], listener.triggers[i])
		}
	}
	if cam.closed != 1 {
		t.Fatalf("camera must be closed exactly once, got %d", cam.closed)
	}
}

func TestRunSuppressesDuplicatesWithinCooldown(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{}
	cam := &fakeCamera{frames: []codeImage{
		frameWith("Checkpoint 1"),
		frameWith("Checkpoint 1"),
		frameWith("Checkpoint 1"),
	}}
	cam.onFrame = func(int) { clk.Advance(time.Second) }
	listener := &recordingListener{}
	if err := newScanner(cam, clk).Run(context.Background(), &fakeSession{active: true, destination: "Hall"}, listener); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(listener.triggers) != 1 {
		t.Fatalf("expected a single trigger inside the window, got %v", listener.triggers)
	}
}

func TestResetCooldownAllowsImmediateRetrigger(t *testing.T) {
	t.Parallel()
	cam := &fakeCamera{frames: []codeImage{frameWith("Checkpoint 2"), frameWith("Checkpoint 2")}}
	scanner := newScanner(cam, &fakeClock{})
	listener := &recordingListener{}
	session := &fakeSession{active: true}
	if err := scanner.Run(context.Background(), session, listener); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(listener.triggers) != 1 || listener.triggers[0].destination != "" {
		t.Fatalf("expected one trigger without destination, got %v", listener.triggers)
	}

	scanner.ResetCooldown()
	cam.next = 0
	if err := scanner.Run(context.Background(), session, listener); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(listener.triggers) != 2 {
		t.Fatalf("reset must clear the cooldown, got %v", listener.triggers)
	}
}

func TestRunStopsWhenSessionEnds(t *testing.T) {
	t.Parallel()
	session := &fakeSession{active: true, destination: "Washroom"}
	cam := &fakeCamera{frames: []codeImage{
		frameWith(),
		frameWith("Checkpoint 1"),
		frameWith("Checkpoint 2"),
	}}
	cam.onFrame = func(i int) {
		if i == 1 {
			session.Stop()
		}
	}
	listener := &recordingListener{}
	if err := newScanner(cam, &fakeClock{}).Run(context.Background(), session, listener); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(listener.triggers) != 0 {
		t.Fatalf("no trigger may follow a stop, got %v", listener.triggers)
	}
	if listener.previews != 1 || cam.next != 2 {
		t.Fatalf("loop should end within one frame: previews=%d frames=%d", listener.previews, cam.next)
	}
	if cam.closed != 1 {
		t.Fatalf("camera must be released after stop")
	}
}

func TestRunReportsCaptureErrors(t *testing.T) {
	t.Parallel()
	cam := &fakeCamera{frames: []codeImage{frameWith(), frameWith()}, failAt: 1}
	listener := &recordingListener{}
	err := newScanner(cam, &fakeClock{}).Run(context.Background(), &fakeSession{active: true}, listener)
	var ce *domain.CaptureError
	if !errors.As(err, &ce) || ce.Op != "read" || !errors.Is(err, apperrors.ErrCapture) {
		t.Fatalf("expected read capture error, got %v", err)
	}
	if cam.closed != 1 {
		t.Fatalf("camera must be released on failure")
	}

	unavailable := &fakeCamera{openErr: &domain.CaptureError{Op: "open", Device: "/dev/video7", Err: errors.New("busy")}}
	err = newScanner(unavailable, &fakeClock{}).Run(context.Background(), &fakeSession{active: true}, listener)
	if !errors.As(err, &ce) || ce.Device != "/dev/video7" {
		t.Fatalf("expected open capture error, got %v", err)
	}
}

func TestRunEndsCleanlyOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cam := &fakeCamera{frames: []codeImage{frameWith(), frameWith(), frameWith()}}
	cam.onFrame = func(i int) {
		if i == 0 {
			cancel()
		}
	}
	listener := &recordingListener{}
	if err := newScanner(cam, &fakeClock{}).Run(ctx, &fakeSession{active: true}, listener); err != nil {
		t.Fatalf("cancel is not a failure: %v", err)
	}
	if cam.next != 1 || cam.closed != 1 {
		t.Fatalf("expected one frame then release, frames=%d closed=%d", cam.next, cam.closed)
	}
}

func TestRunSkipsUndecodableFrames(t *testing.T) {
	t.Parallel()
	broken := frameWith("Checkpoint 1")
	broken.err = errors.New("checksum")
	cam := &fakeCamera{frames: []codeImage{broken, frameWith("Checkpoint 1")}}
	listener := &recordingListener{}
	if err := newScanner(cam, &fakeClock{}).Run(context.Background(), &fakeSession{active: true}, listener); err != nil {
		t.Fatalf("run: %v", err)
	}
	if listener.previews != 2 || len(listener.triggers) != 1 {
		t.Fatalf("decode failure should only skip its frame: previews=%d triggers=%v", listener.previews, listener.triggers)
	}
}

func TestInspectMarksCheckpoints(t *testing.T) {
	t.Parallel()
	cam := &fakeCamera{frames: []codeImage{frameWith("Checkpoint 1")}}
	scanner := newScanner(cam, &fakeClock{})
	codes, err := scanner.Inspect(context.Background(), frameWith("Checkpoint 1", "menu"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(codes) != 2 || !codes[0].Checkpoint || codes[1].Checkpoint {
		t.Fatalf("unexpected codes: %+v", codes)
	}
	listener := &recordingListener{}
	if err := scanner.Run(context.Background(), &fakeSession{active: true}, listener); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(listener.triggers) != 1 {
		t.Fatalf("inspect must not arm the cooldown")
	}
}

// gatedDecoder reports codes only after release is closed.
type gatedDecoder struct {
	codes   []string
	entered chan struct{}
	release chan struct{}
}

func (d *gatedDecoder) Decode(context.Context, image.Image) ([]string, error) {
	close(d.entered)
	<-d.release
	return d.codes, nil
}

func TestResetDuringDecodeLeavesNoCooldownEntry(t *testing.T) {
	t.Parallel()
	decoder := &gatedDecoder{
		codes:   []string{"Checkpoint 1"},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tracker := domain.NewTracker(3 * time.Second)
	clk := &fakeClock{}
	scanner := service.NewScanner(
		&fakeCamera{frames: []codeImage{frameWith()}},
		decoder,
		fakeCatalog{"Checkpoint 1": true},
		tracker,
		clk,
		nil,
	)
	session := &fakeSession{active: true, destination: "Hall"}
	listener := &recordingListener{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- scanner.Run(ctx, session, listener) }()

	<-decoder.entered
	session.Stop()
	cancel()
	scanner.ResetCooldown()
	close(decoder.release)
	if err := <-errc; err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(listener.triggers) != 0 {
		t.Fatalf("no trigger may follow a reset, got %v", listener.triggers)
	}
	if !tracker.ShouldTrigger("Checkpoint 1", clk.Now()) {
		t.Fatalf("same checkpoint must trigger right after a reset (live=%d)", tracker.Live(clk.Now()))
	}
}
