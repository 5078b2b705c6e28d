package service

import (
	"context"
	"errors"
	"image"

	hclog "github.com/hashicorp/go-hclog"

	"qrnav/internal/modules/scan/domain"
	scanout "qrnav/internal/modules/scan/port/out"
	"qrnav/internal/platform/clock"
	apperrors "qrnav/internal/platform/errors"
)

type Scanner struct {
	camera  scanout.CameraOpener
	decoder scanout.Decoder
	catalog scanout.Catalog
	tracker *domain.Tracker
	clock   clock.Clock
	logger  hclog.Logger
}

func NewScanner(
	camera scanout.CameraOpener,
	decoder scanout.Decoder,
	catalog scanout.Catalog,
	tracker *domain.Tracker,
	clk clock.Clock,
	logger hclog.Logger,
) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{
		camera:  camera,
		decoder: decoder,
		catalog: catalog,
		tracker: tracker,
		clock:   clk,
		logger:  logger.Named("scanner"),
	}
}

// Run reads frames until the session goes inactive, ctx ends or the camera
// fails. Only a camera failure is returned, as a *domain.CaptureError.
func (s *Scanner) Run(ctx context.Context, session scanout.Session, listener scanout.Listener) error {
	cam, err := s.camera.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return s.captureFailure("open", err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			s.logger.Warn("camera close failed", "error", err)
		}
	}()
	s.logger.Debug("scanner started")

	for session.Active() && ctx.Err() == nil {
		frame, err := cam.NextFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, apperrors.ErrEndOfMedia) {
				s.logger.Info("camera stream ended")
				break
			}
			return s.captureFailure("read", err)
		}
		if !session.Active() {
			break
		}
		listener.Preview(ctx, frame)
		s.scanFrame(ctx, session, listener, frame)
	}
	s.logger.Debug("scanner stopped")
	return nil
}

func (s *Scanner) scanFrame(ctx context.Context, session scanout.Session, listener scanout.Listener, frame domain.Frame) {
	ids, err := s.decoder.Decode(ctx, frame.Image)
	if err != nil {
		s.logger.Debug("frame skipped", "seq", frame.Seq, "error", err)
		return
	}
	for _, id := range ids {
		// a reset during Decode must not be followed by a new cooldown entry
		if !session.Active() || ctx.Err() != nil {
			return
		}
		if !s.catalog.Known(ctx, id) {
			continue
		}
		now := s.clock.Now()
		if !s.tracker.ShouldTrigger(id, now) {
			continue
		}
		destination := session.Destination()
		s.logger.Info("checkpoint triggered", "checkpoint", id, "destination", destination)
		listener.Trigger(ctx, domain.CheckpointEvent{CheckpointID: id, ObservedAt: now}, destination)
	}
}

func (s *Scanner) ResetCooldown() {
	s.tracker.Reset()
}

func (s *Scanner) captureFailure(op string, err error) error {
	var ce *domain.CaptureError
	if !errors.As(err, &ce) {
		ce = &domain.CaptureError{Op: op, Err: err}
	}
	s.logger.Error("camera capture failed", "op", ce.Op, "device", ce.Device, "error", ce.Err)
	return ce
}

// Inspect decodes a single still image without touching the cooldown.
func (s *Scanner) Inspect(ctx context.Context, img image.Image) ([]domain.Code, error) {
	ids, err := s.decoder.Decode(ctx, img)
	if err != nil {
		return nil, err
	}
	codes := make([]domain.Code, 0, len(ids))
	for _, id := range ids {
		codes = append(codes, domain.Code{Text: id, Checkpoint: s.catalog.Known(ctx, id)})
	}
	return codes, nil
}
