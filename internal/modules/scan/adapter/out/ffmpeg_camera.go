package out

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"qrnav/internal/modules/scan/domain"
	scanout "qrnav/internal/modules/scan/port/out"
	"qrnav/internal/platform/clock"
	"qrnav/internal/platform/rawvideo"
)

type FFmpegCameraConfig struct {
	Binary string
	Format string
	Device string
	Width  int
	Height int
}

// FFmpegCamera captures from a local device through an ffmpeg subprocess
// writing raw rgb24 frames to its stdout.
type FFmpegCamera struct {
	cfg   FFmpegCameraConfig
	clock clock.Clock
}

func NewFFmpegCamera(cfg FFmpegCameraConfig, clk clock.Clock) scanout.CameraOpener {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.Format == "" {
		cfg.Format = defaultCaptureFormat()
	}
	return &FFmpegCamera{cfg: cfg, clock: clk}
}

func defaultCaptureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "v4l2"
	}
}

func (c *FFmpegCamera) args() []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", c.cfg.Format,
		"-i", c.cfg.Device,
		"-an",
	}
	return append(args, rawvideo.OutputArgs(c.cfg.Width, c.cfg.Height)...)
}

func (c *FFmpegCamera) Open(ctx context.Context) (scanout.Camera, error) {
	fail := func(err error) error {
		return &domain.CaptureError{Op: "open", Device: c.cfg.Device, Err: err}
	}
	cmdPath, err := exec.LookPath(c.cfg.Binary)
	if err != nil {
		return nil, fail(err)
	}
	cmd := exec.Command(cmdPath, c.args()...)
	stderr := &tailBuffer{max: 2048}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fail(err)
	}
	frames, err := rawvideo.NewReader(stdout, c.cfg.Width, c.cfg.Height)
	if err != nil {
		return nil, fail(err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fail(err)
	}
	stream := &ffmpegStream{
		cmd:    cmd,
		frames: frames,
		stderr: stderr,
		device: c.cfg.Device,
		clock:  c.clock,
	}
	// a blocked read returns once the process is gone
	stream.stop = context.AfterFunc(ctx, stream.kill)
	return stream, nil
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	frames *rawvideo.Reader
	stderr *tailBuffer
	device string
	clock  clock.Clock
	seq    uint64
	stop   func() bool

	closeOnce sync.Once
	closeErr  error
}

func (s *ffmpegStream) NextFrame(ctx context.Context) (domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return domain.Frame{}, err
	}
	img, err := s.frames.Next()
	if err != nil {
		if ctx.Err() != nil {
			return domain.Frame{}, ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("ffmpeg exited: %s", s.stderr.String())
		}
		return domain.Frame{}, &domain.CaptureError{Op: "read", Device: s.device, Err: err}
	}
	s.seq++
	return domain.Frame{Image: img, Seq: s.seq, CapturedAt: s.clock.Now()}, nil
}

func (s *ffmpegStream) kill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}

func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() {
		s.stop()
		s.kill()
		// a killed ffmpeg always reports a signal exit
		if err := s.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				s.closeErr = fmt.Errorf("wait for ffmpeg: %w", err)
			}
		}
	})
	return s.closeErr
}

// tailBuffer keeps the last max bytes written, enough for an ffmpeg error.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(p)
	if over := b.buf.Len() - b.max; over > 0 {
		b.buf.Next(over)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := strings.TrimSpace(b.buf.String())
	if msg == "" {
		return "stream closed"
	}
	return msg
}
