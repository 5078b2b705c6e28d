package in

import (
	"context"

	"qrnav/internal/modules/route/dto"
)

type Usecase interface {
	Resolve(ctx context.Context, input dto.ResolveInput) (dto.ResolveOutput, error)
	IsCheckpoint(ctx context.Context, checkpointID string) bool
	Destinations(ctx context.Context) []string
	IsDestination(ctx context.Context, destinationID string) bool
	ListInstructions(ctx context.Context) ([]dto.InstructionOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
