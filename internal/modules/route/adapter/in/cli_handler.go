package in

import (
	"context"

	"qrnav/internal/modules/route/dto"
	routein "qrnav/internal/modules/route/port/in"
)

type CLIHandler struct {
	usecase routein.Usecase
}

func NewCLIHandler(usecase routein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Resolve(ctx context.Context, checkpointID, destinationID string) (dto.ResolveOutput, error) {
	return h.usecase.Resolve(ctx, dto.ResolveInput{CheckpointID: checkpointID, DestinationID: destinationID})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.InstructionOutput, error) {
	return h.usecase.ListInstructions(ctx)
}

func (h CLIHandler) Destinations(ctx context.Context) []string {
	return h.usecase.Destinations(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
