package in

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"qrnav/internal/modules/scan/dto"
	scanin "qrnav/internal/modules/scan/port/in"
)

type CLIHandler struct {
	usecase scanin.Usecase
}

func NewCLIHandler(usecase scanin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Inspect decodes the codes printed in a still image, e.g. a photo of a
// freshly printed checkpoint sign.
func (h CLIHandler) Inspect(ctx context.Context, path string) ([]dto.CodeOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return h.usecase.Inspect(ctx, dto.InspectInput{Image: img})
}
