package out

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"

	scanout "qrnav/internal/modules/scan/port/out"
)

type multipleReader interface {
	DecodeMultiple(image *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error)
}

// ZXingDecoder finds every QR code in a frame. Codes are reported top to
// bottom, then left to right, each text at most once.
type ZXingDecoder struct {
	mu     sync.Mutex
	reader multipleReader
}

func NewZXingDecoder() scanout.Decoder {
	return &ZXingDecoder{reader: multiqr.NewQRCodeMultiReader()}
}

func (d *ZXingDecoder) Decode(_ context.Context, img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize frame: %w", err)
	}
	d.mu.Lock()
	results, err := d.reader.DecodeMultiple(bmp, nil)
	d.mu.Unlock()
	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode qr: %w", err)
	}
	return orderCodes(results), nil
}

type located struct {
	text string
	x, y float64
}

func orderCodes(results []*gozxing.Result) []string {
	codes := make([]located, 0, len(results))
	for _, r := range results {
		if r == nil || r.GetText() == "" {
			continue
		}
		x, y := math.Inf(1), math.Inf(1)
		for _, p := range r.GetResultPoints() {
			x = math.Min(x, p.GetX())
			y = math.Min(y, p.GetY())
		}
		codes = append(codes, located{text: r.GetText(), x: x, y: y})
	}
	sort.SliceStable(codes, func(i, j int) bool {
		if codes[i].y != codes[j].y {
			return codes[i].y < codes[j].y
		}
		return codes[i].x < codes[j].x
	})
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, dup := seen[c.text]; dup {
			continue
		}
		seen[c.text] = struct{}{}
		out = append(out, c.text)
	}
	return out
}
