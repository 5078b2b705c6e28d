package in

import (
	"context"

	"qrnav/internal/modules/voice/dto"
)

type Usecase interface {
	// Submit queues an announcement and never blocks. It reports whether
	// the text was accepted.
	Submit(ctx context.Context, input dto.SpeakInput) bool
	Say(ctx context.Context, input dto.SpeakInput) error
	Check(ctx context.Context) (dto.EngineInfo, error)
	Close() error
}
