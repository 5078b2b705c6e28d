package usecase

import (
	"context"
	"fmt"

	"qrnav/internal/modules/scan/domain"
	"qrnav/internal/modules/scan/dto"
	scanin "qrnav/internal/modules/scan/port/in"
	"qrnav/internal/modules/scan/service"
	apperrors "qrnav/internal/platform/errors"
)

type Interactor struct {
	svc *service.Scanner
}

func NewInteractor(svc *service.Scanner) scanin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Run(ctx context.Context, gate scanin.Gate, sink scanin.Sink) error {
	return i.svc.Run(ctx, gate, sinkListener{sink: sink})
}

func (i *Interactor) ResetCooldown(_ context.Context) {
	i.svc.ResetCooldown()
}

func (i *Interactor) Inspect(ctx context.Context, input dto.InspectInput) ([]dto.CodeOutput, error) {
	if input.Image == nil {
		return nil, fmt.Errorf("image is required: %w", apperrors.ErrInvalidInput)
	}
	codes, err := i.svc.Inspect(ctx, input.Image)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CodeOutput, 0, len(codes))
	for _, c := range codes {
		out = append(out, dto.CodeOutput{Text: c.Text, Checkpoint: c.Checkpoint})
	}
	return out, nil
}

type sinkListener struct {
	sink scanin.Sink
}

func (l sinkListener) Preview(ctx context.Context, frame domain.Frame) {
	l.sink.Preview(ctx, dto.FrameOutput{Image: frame.Image, Seq: frame.Seq, CapturedAt: frame.CapturedAt})
}

func (l sinkListener) Trigger(ctx context.Context, event domain.CheckpointEvent, destinationID string) {
	l.sink.Trigger(ctx, dto.TriggerOutput{
		CheckpointID:  event.CheckpointID,
		DestinationID: destinationID,
		ObservedAt:    event.ObservedAt,
	})
}
