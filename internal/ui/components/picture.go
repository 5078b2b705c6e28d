package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"qrnav/internal/ui/theme"
)

// halfBlock paints the upper pixel with the foreground colour and the lower
// one with the background, so one terminal cell carries two pixel rows.
const halfBlock = "▀"

var canvasBackground = color.RGBA{R: 0x18, G: 0x18, B: 0x25, A: 0xff}

// RenderPicture draws img into a cols x rows block of terminal cells. The image
// is scaled to fit and centred on the pane background. A nil image renders the
// placeholder text instead.
func RenderPicture(img image.Image, cols, rows int, placeholder string) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if img == nil || img.Bounds().Empty() {
		return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render(placeholder))
	}

	canvas := fitToCanvas(img, cols, rows*2)
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := canvas.RGBAAt(x, 2*y)
			bottom := canvas.RGBAAt(x, 2*y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(halfBlock))
		}
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func fitToCanvas(img image.Image, w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasBackground), image.Point{}, xdraw.Src)

	src := img.Bounds()
	sw, sh := src.Dx(), src.Dy()
	dw, dh := w, sh*w/sw
	if dh > h {
		dw, dh = sw*h/sh, h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	off := image.Pt((w-dw)/2, (h-dh)/2)
	xdraw.ApproxBiLinear.Scale(canvas, image.Rectangle{Min: off, Max: off.Add(image.Pt(dw, dh))}, img, src, xdraw.Over, nil)
	return canvas
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
