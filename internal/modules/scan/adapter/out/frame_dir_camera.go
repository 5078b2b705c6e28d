package out

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"qrnav/internal/modules/scan/domain"
	scanout "qrnav/internal/modules/scan/port/out"
	"qrnav/internal/platform/clock"
	apperrors "qrnav/internal/platform/errors"
)

// FrameDirCamera replays a recorded stream: the still images of a directory
// in lexical order, one per interval.
type FrameDirCamera struct {
	dir      string
	interval time.Duration
	loop     bool
	clock    clock.Clock
}

func NewFrameDirCamera(dir string, interval time.Duration, loop bool, clk clock.Clock) scanout.CameraOpener {
	return &FrameDirCamera{dir: dir, interval: interval, loop: loop, clock: clk}
}

func (c *FrameDirCamera) Open(_ context.Context) (scanout.Camera, error) {
	files, err := listFrames(c.dir)
	if err != nil {
		return nil, &domain.CaptureError{Op: "open", Device: c.dir, Err: err}
	}
	if len(files) == 0 {
		return nil, &domain.CaptureError{Op: "open", Device: c.dir, Err: fmt.Errorf("no frames found")}
	}
	return &frameDirStream{files: files, cam: c}, nil
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

type frameDirStream struct {
	cam   *FrameDirCamera
	files []string
	next  int
	seq   uint64
	timer *time.Timer
}

func (s *frameDirStream) NextFrame(ctx context.Context) (domain.Frame, error) {
	if s.next >= len(s.files) {
		if !s.cam.loop {
			return domain.Frame{}, apperrors.ErrEndOfMedia
		}
		s.next = 0
	}
	if s.seq > 0 && s.cam.interval > 0 {
		if err := s.wait(ctx); err != nil {
			return domain.Frame{}, err
		}
	}
	path := s.files[s.next]
	s.next++
	img, err := LoadImage(path)
	if err != nil {
		return domain.Frame{}, &domain.CaptureError{Op: "read", Device: s.cam.dir, Err: err}
	}
	s.seq++
	return domain.Frame{Image: img, Seq: s.seq, CapturedAt: s.cam.clock.Now()}, nil
}

func (s *frameDirStream) wait(ctx context.Context) error {
	if s.timer == nil {
		s.timer = time.NewTimer(s.cam.interval)
	} else {
		s.timer.Reset(s.cam.interval)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.timer.C:
		return nil
	}
}

func (s *frameDirStream) Close() error {
	if s.timer != nil {
		s.timer.Stop()
	}
	return nil
}

// LoadImage decodes a PNG, JPEG or GIF file (first frame for GIFs).
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
