package out

import (
	"context"

	"qrnav/internal/modules/voice/domain"
)

type Engine interface {
	Speak(ctx context.Context, text string) error
	Describe(ctx context.Context) (domain.Metadata, error)
	Close() error
}
