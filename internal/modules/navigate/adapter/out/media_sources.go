package out

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"

	apperrors "qrnav/internal/platform/errors"
	"qrnav/internal/platform/rawvideo"
)

func scaleTo(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// gifSource decodes the whole animation up front; arrow clips are small.
type gifSource struct {
	frames []image.Image
	next   int
}

func newGIFSource(path string, size int) (*gifSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode gif %s: %w", filepath.Base(path), err)
	}
	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() && len(anim.Image) > 0 {
		bounds = anim.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)
	frames := make([]image.Image, 0, len(anim.Image))
	for i, frame := range anim.Image {
		xdraw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, xdraw.Over)
		frames = append(frames, scaleTo(canvas, size))
		if i < len(anim.Disposal) && anim.Disposal[i] == gif.DisposalBackground {
			xdraw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		}
	}
	return &gifSource{frames: frames}, nil
}

func (s *gifSource) Next(context.Context) (image.Image, error) {
	if s.next >= len(s.frames) {
		return nil, apperrors.ErrEndOfMedia
	}
	img := s.frames[s.next]
	s.next++
	return img, nil
}

func (s *gifSource) Close() error {
	s.frames = nil
	return nil
}

// frameDirSource plays a directory of still images in lexical order.
type frameDirSource struct {
	files []string
	size  int
	next  int
}

func newFrameDirSource(dir string, size int) (*frameDirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frames in %s", dir)
	}
	sort.Strings(files)
	return &frameDirSource{files: files, size: size}, nil
}

func (s *frameDirSource) Next(context.Context) (image.Image, error) {
	if s.next >= len(s.files) {
		return nil, apperrors.ErrEndOfMedia
	}
	path := s.files[s.next]
	s.next++
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return scaleTo(img, s.size), nil
}

func (s *frameDirSource) Close() error {
	return nil
}

// ffmpegSource decodes any container ffmpeg understands, already scaled.
type ffmpegSource struct {
	cmd    *exec.Cmd
	frames *rawvideo.Reader
	closed bool
}

func newFFmpegSource(cmdPath, path string, size int) (*ffmpegSource, error) {
	args := append([]string{"-hide_banner", "-loglevel", "error", "-i", path, "-an"}, rawvideo.OutputArgs(size, size)...)
	cmd := exec.Command(cmdPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	frames, err := rawvideo.NewReader(stdout, size, size)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg for %s: %w", filepath.Base(path), err)
	}
	return &ffmpegSource{cmd: cmd, frames: frames}, nil
}

func (s *ffmpegSource) Next(context.Context) (image.Image, error) {
	img, err := s.frames.Next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, apperrors.ErrEndOfMedia
		}
		return nil, err
	}
	return img, nil
}

func (s *ffmpegSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
