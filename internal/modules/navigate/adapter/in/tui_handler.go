package in

import (
	"context"

	"qrnav/internal/modules/navigate/dto"
	navin "qrnav/internal/modules/navigate/port/in"
)

type TUIHandler struct {
	usecase navin.Usecase
}

func NewTUIHandler(usecase navin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Initial() dto.DisplayOutput {
	return h.usecase.Initial()
}

func (h TUIHandler) Destinations(ctx context.Context) []string {
	return h.usecase.Destinations(ctx)
}

func (h TUIHandler) Navigate(ctx context.Context, destination string) (dto.DisplayOutput, error) {
	return h.usecase.SelectDestination(ctx, dto.SelectInput{DestinationID: destination})
}

func (h TUIHandler) Reset(ctx context.Context) dto.DisplayOutput {
	return h.usecase.Reset(ctx)
}

func (h TUIHandler) Events() <-chan dto.Event {
	return h.usecase.Events()
}

func (h TUIHandler) Accept(runID string) bool {
	return h.usecase.Accept(runID)
}

func (h TUIHandler) Dispatch(ctx context.Context, guidance dto.GuidanceOutput) dto.DisplayOutput {
	return h.usecase.Dispatch(ctx, guidance)
}

func (h TUIHandler) NextFrame(ctx context.Context, generation uint64) dto.PlaybackFrame {
	return h.usecase.NextFrame(ctx, generation)
}

func (h TUIHandler) SetVoice(enabled bool) bool {
	return h.usecase.SetVoice(enabled)
}

func (h TUIHandler) Status() dto.StatusOutput {
	return h.usecase.Status()
}
