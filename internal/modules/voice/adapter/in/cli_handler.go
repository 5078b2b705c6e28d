package in

import (
	"context"

	"qrnav/internal/modules/voice/dto"
	voicein "qrnav/internal/modules/voice/port/in"
)

type CLIHandler struct {
	usecase voicein.Usecase
}

func NewCLIHandler(usecase voicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Say(ctx context.Context, text string) error {
	return h.usecase.Say(ctx, dto.SpeakInput{Text: text})
}

func (h CLIHandler) Check(ctx context.Context) (dto.EngineInfo, error) {
	return h.usecase.Check(ctx)
}
