package out

import (
	"context"

	navout "qrnav/internal/modules/navigate/port/out"
	"qrnav/internal/modules/voice/dto"
	voicein "qrnav/internal/modules/voice/port/in"
)

type VoiceSpeaker struct {
	voice voicein.Usecase
}

func NewVoiceSpeaker(voice voicein.Usecase) navout.Speaker {
	return &VoiceSpeaker{voice: voice}
}

// Say queues text and returns at once; a busy speech queue drops it.
func (s *VoiceSpeaker) Say(text string) {
	s.voice.Submit(context.Background(), dto.SpeakInput{Text: text})
}
