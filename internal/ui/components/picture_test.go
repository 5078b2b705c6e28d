package components_test

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"qrnav/internal/ui/components"
)

func TestRenderPictureFillsRequestedCells(t *testing.T) {
	t.Parallel()
	img := image.NewRGBA(image.Rect(0, 0, 40, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}

	out := components.RenderPicture(img, 12, 4, "no camera")
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := lipgloss.Width(line); got != 12 {
			t.Fatalf("row %d: expected width 12, got %d", i, got)
		}
	}
	if n := strings.Count(out, "▀"); n != 48 {
		t.Fatalf("expected 48 half blocks, got %d", n)
	}
}

func TestRenderPicturePlaceholder(t *testing.T) {
	t.Parallel()
	out := components.RenderPicture(nil, 20, 3, "no camera")
	if !strings.Contains(out, "no camera") {
		t.Fatalf("placeholder missing: %q", out)
	}
	if components.RenderPicture(nil, 0, 3, "x") != "" {
		t.Fatalf("zero width should render nothing")
	}
}
