// Package rawvideo reads fixed-size rgb24 frames written by ffmpeg with
// "-f rawvideo -pix_fmt rgb24".
package rawvideo

import (
	"fmt"
	"image"
	"io"
)

type Reader struct {
	r      io.Reader
	width  int
	height int
	buf    []byte
}

func NewReader(r io.Reader, width, height int) (*Reader, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	return &Reader{r: r, width: width, height: height, buf: make([]byte, width*height*3)}, nil
}

// Next returns io.EOF at a clean frame boundary and io.ErrUnexpectedEOF for a
// truncated frame.
func (r *Reader) Next() (*image.NRGBA, error) {
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for i, j := 0, 0; i < len(r.buf); i, j = i+3, j+4 {
		img.Pix[j] = r.buf[i]
		img.Pix[j+1] = r.buf[i+1]
		img.Pix[j+2] = r.buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

// OutputArgs are the ffmpeg output flags matching Reader, written to stdout.
func OutputArgs(width, height int) []string {
	return []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"pipe:1",
	}
}
