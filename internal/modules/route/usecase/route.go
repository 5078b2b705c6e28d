package usecase

import (
	"context"
	"strings"

	"qrnav/internal/modules/route/dto"
	routein "qrnav/internal/modules/route/port/in"
	"qrnav/internal/modules/route/service"
)

type Interactor struct {
	svc *service.RouteService
}

func NewInteractor(svc *service.RouteService) routein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Resolve(_ context.Context, input dto.ResolveInput) (dto.ResolveOutput, error) {
	out := i.svc.Resolve(input.CheckpointID, strings.TrimSpace(input.DestinationID))
	return dto.ResolveOutput{
		Kind:          string(out.Kind),
		CheckpointID:  out.CheckpointID,
		DestinationID: out.DestinationID,
		Text:          out.Instruction.Text,
		MediaRef:      out.Instruction.MediaRef,
	}, nil
}

func (i *Interactor) IsCheckpoint(_ context.Context, checkpointID string) bool {
	return i.svc.Table().HasCheckpoint(checkpointID)
}

func (i *Interactor) Destinations(_ context.Context) []string {
	return i.svc.Table().Destinations()
}

func (i *Interactor) IsDestination(_ context.Context, destinationID string) bool {
	return i.svc.Table().HasDestination(destinationID)
}

func (i *Interactor) ListInstructions(ctx context.Context) ([]dto.InstructionOutput, error) {
	entries, err := i.svc.Indexed(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InstructionOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.InstructionOutput{
			CheckpointID:  e.CheckpointID,
			DestinationID: e.DestinationID,
			Text:          e.Text,
			MediaRef:      e.MediaRef,
		})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	table, err := i.svc.Load(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{
		Source:       i.svc.SourceName(),
		Instructions: len(table.Entries()),
		Destinations: len(table.Destinations()),
	}, nil
}
