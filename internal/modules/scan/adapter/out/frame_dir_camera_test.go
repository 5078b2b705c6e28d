package out_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	scanadapter "qrnav/internal/modules/scan/adapter/out"
	"qrnav/internal/platform/clock"
	apperrors "qrnav/internal/platform/errors"
)

func writePNG(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func shadeOf(img image.Image) uint8 {
	return color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y
}

func TestFrameDirCameraReplaysInOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "002.png"), 20)
	writePNG(t, filepath.Join(dir, "001.png"), 10)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	cam, err := scanadapter.NewFrameDirCamera(dir, 0, false, clock.Monotonic{}).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cam.Close()

	for i, want := range []uint8{10, 20} {
		frame, err := cam.NextFrame(context.Background())
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if frame.Seq != uint64(i+1) || shadeOf(frame.Image) != want {
			t.Fatalf("frame %d: seq=%d shade=%d", i, frame.Seq, shadeOf(frame.Image))
		}
	}
	if _, err := cam.NextFrame(context.Background()); !errors.Is(err, apperrors.ErrEndOfMedia) {
		t.Fatalf("expected end of media, got %v", err)
	}
}

func TestFrameDirCameraLoops(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "only.png"), 99)
	cam, err := scanadapter.NewFrameDirCamera(dir, 0, true, clock.Monotonic{}).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cam.Close()
	for i := 0; i < 3; i++ {
		if _, err := cam.NextFrame(context.Background()); err != nil {
			t.Fatalf("looping frame %d: %v", i, err)
		}
	}
}

func TestFrameDirCameraUnavailable(t *testing.T) {
	t.Parallel()
	_, err := scanadapter.NewFrameDirCamera(filepath.Join(t.TempDir(), "missing"), 0, false, clock.Monotonic{}).Open(context.Background())
	if !errors.Is(err, apperrors.ErrCapture) {
		t.Fatalf("missing directory should be a capture error, got %v", err)
	}
	_, err = scanadapter.NewFrameDirCamera(t.TempDir(), 0, false, clock.Monotonic{}).Open(context.Background())
	if !errors.Is(err, apperrors.ErrCapture) {
		t.Fatalf("empty directory should be a capture error, got %v", err)
	}
}
