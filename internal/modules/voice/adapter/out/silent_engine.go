package out

import (
	"context"

	"qrnav/internal/modules/voice/domain"
	voiceout "qrnav/internal/modules/voice/port/out"
)

// SilentEngine accepts every announcement and says nothing.
type SilentEngine struct{}

func NewSilentEngine() voiceout.Engine {
	return SilentEngine{}
}

func (SilentEngine) Speak(context.Context, string) error { return nil }

func (SilentEngine) Describe(context.Context) (domain.Metadata, error) {
	return domain.Metadata{Engine: "none", Name: "silent"}, nil
}

func (SilentEngine) Close() error { return nil }
