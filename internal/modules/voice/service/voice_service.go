package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"qrnav/internal/modules/voice/domain"
	voiceout "qrnav/internal/modules/voice/port/out"
	apperrors "qrnav/internal/platform/errors"
)

// VoiceService speaks announcements on one worker goroutine. Callers on the
// UI side only ever enqueue.
type VoiceService struct {
	engine  voiceout.Engine
	timeout time.Duration
	logger  hclog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
}

func NewVoiceService(engine voiceout.Engine, queueSize int, timeout time.Duration, logger hclog.Logger) *VoiceService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	s := &VoiceService{
		engine:  engine,
		timeout: timeout,
		logger:  logger.Named("voice"),
		queue:   make(chan string, queueSize),
		done:    make(chan struct{}),
	}
	go s.work()
	return s
}

func (s *VoiceService) work() {
	defer close(s.done)
	for text := range s.queue {
		if err := s.speak(context.Background(), text); err != nil {
			s.logger.Warn("announcement failed", "error", err)
		}
	}
}

func (s *VoiceService) speak(ctx context.Context, text string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.engine.Speak(ctx, text)
}

// Submit enqueues text. A full queue or a closed service drops it.
func (s *VoiceService) Submit(text string) error {
	text, err := domain.NormalizeText(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("voice service closed: %w", apperrors.ErrQueueFull)
	}
	select {
	case s.queue <- text:
		return nil
	default:
		s.logger.Debug("announcement dropped", "text", text)
		return apperrors.ErrQueueFull
	}
}

// SpeakNow bypasses the queue and waits for the engine.
func (s *VoiceService) SpeakNow(ctx context.Context, text string) error {
	text, err := domain.NormalizeText(text)
	if err != nil {
		return err
	}
	return s.speak(ctx, text)
}

func (s *VoiceService) Describe(ctx context.Context) (domain.Metadata, error) {
	return s.engine.Describe(ctx)
}

// Close lets queued announcements finish, then releases the engine.
func (s *VoiceService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.done
	return s.engine.Close()
}
