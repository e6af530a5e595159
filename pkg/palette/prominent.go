package palette

import (
	"image"

	"github.com/EdlinOrg/prominentcolor"
)

func prominentPalette(img image.Image, k int) (Palette, error) {
	// img is already downscaled, so ask for the same width to keep every pixel
	width := uint(img.Bounds().Dx())

	items, err := prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping, width, []prominentcolor.ColorBackgroundMask{})
	if err != nil {
		return nil, err
	}

	p := make(Palette, 0, len(items))
	for _, item := range items {
		p = append(p, Sample{
			R:     uint8(item.Color.R),
			G:     uint8(item.Color.G),
			B:     uint8(item.Color.B),
			Count: item.Cnt,
		})
	}

	return p, nil
}
