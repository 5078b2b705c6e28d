package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	navout "qrnav/internal/modules/navigate/port/out"
	apperrors "qrnav/internal/platform/errors"
)

type MediaLibraryConfig struct {
	Dir    string
	Size   int
	FFmpeg string
}

// MediaLibrary opens arrow media by reference. Refs are resolved against
// Dir; the extension picks the decoder.
type MediaLibrary struct {
	cfg MediaLibraryConfig
}

func NewMediaLibrary(cfg MediaLibraryConfig) navout.MediaOpener {
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	if cfg.Size <= 0 {
		cfg.Size = 100
	}
	return &MediaLibrary{cfg: cfg}
}

func (l *MediaLibrary) Open(_ context.Context, ref string) (navout.MediaSource, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.cfg.Dir, ref)
	}
	info, err := os.Stat(path)
	if err != nil {
		if direction, ok := builtinArrow(ref); ok && os.IsNotExist(err) {
			return newArrowSource(direction, l.cfg.Size), nil
		}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open media %s: %w", ref, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("open media %s: %w", ref, err)
	}
	if info.IsDir() {
		return newFrameDirSource(path, l.cfg.Size)
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return newGIFSource(path, l.cfg.Size)
	}
	cmdPath, err := exec.LookPath(l.cfg.FFmpeg)
	if err != nil {
		if direction, ok := builtinArrow(ref); ok {
			return newArrowSource(direction, l.cfg.Size), nil
		}
		return nil, fmt.Errorf("open media %s: %w", ref, err)
	}
	return newFFmpegSource(cmdPath, path, l.cfg.Size)
}

// builtinArrow maps "right.mp4", "media/left.gif" and the like to a
// direction the library can draw itself.
func builtinArrow(ref string) (arrowDirection, bool) {
	base := strings.ToLower(filepath.Base(ref))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	switch arrowDirection(base) {
	case arrowRight, arrowLeft, arrowStraight:
		return arrowDirection(base), true
	default:
		return "", false
	}
}
