package usecase

import (
	"context"

	"qrnav/internal/modules/voice/dto"
	voicein "qrnav/internal/modules/voice/port/in"
	"qrnav/internal/modules/voice/service"
)

type Interactor struct {
	svc *service.VoiceService
}

func NewInteractor(svc *service.VoiceService) voicein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Submit(_ context.Context, input dto.SpeakInput) bool {
	return i.svc.Submit(input.Text) == nil
}

func (i *Interactor) Say(ctx context.Context, input dto.SpeakInput) error {
	return i.svc.SpeakNow(ctx, input.Text)
}

func (i *Interactor) Check(ctx context.Context) (dto.EngineInfo, error) {
	meta, err := i.svc.Describe(ctx)
	if err != nil {
		return dto.EngineInfo{}, err
	}
	return dto.EngineInfo{Engine: meta.Engine, Name: meta.Name, Version: meta.Version}, nil
}

func (i *Interactor) Close() error {
	return i.svc.Close()
}
