package out

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/vector"

	apperrors "qrnav/internal/platform/errors"
)

type arrowDirection string

const (
	arrowRight    arrowDirection = "right"
	arrowLeft     arrowDirection = "left"
	arrowStraight arrowDirection = "straight"

	arrowFrames = 24
)

var arrowColor = color.NRGBA{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff}

// arrowShape is a right-pointing arrow in unit coordinates.
var arrowShape = [][2]float32{
	{0.10, 0.40}, {0.55, 0.40}, {0.55, 0.20}, {0.90, 0.50},
	{0.55, 0.80}, {0.55, 0.60}, {0.10, 0.60},
}

// arrowSource draws a sliding arrow, used when no clip is authored.
type arrowSource struct {
	direction arrowDirection
	size      int
	next      int
}

func newArrowSource(direction arrowDirection, size int) *arrowSource {
	return &arrowSource{direction: direction, size: size}
}

func (s *arrowSource) Next(context.Context) (image.Image, error) {
	if s.next >= arrowFrames {
		return nil, apperrors.ErrEndOfMedia
	}
	// slide forward over the first half, back over the second
	step := s.next % (arrowFrames / 2)
	if s.next >= arrowFrames/2 {
		step = arrowFrames/2 - step
	}
	s.next++
	return drawArrow(s.direction, s.size, float32(step)*0.01), nil
}

func (s *arrowSource) Close() error {
	return nil
}

func drawArrow(direction arrowDirection, size int, shift float32) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := vector.NewRasterizer(size, size)
	scale := float32(size)
	for i, p := range arrowShape {
		x, y := orient(direction, p[0]+shift-0.05, p[1])
		if i == 0 {
			r.MoveTo(x*scale, y*scale)
			continue
		}
		r.LineTo(x*scale, y*scale)
	}
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.NewUniform(arrowColor), image.Point{})
	return dst
}

func orient(direction arrowDirection, x, y float32) (float32, float32) {
	switch direction {
	case arrowLeft:
		return 1 - x, y
	case arrowStraight:
		return y, 1 - x
	default:
		return x, y
	}
}
