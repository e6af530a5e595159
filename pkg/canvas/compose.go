package canvas

import (
	"image"
	"image/color"

	"github.com/BitPonyLLC/swatchcard/pkg/metadata"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// the card is always black on white
var (
	background = color.White
	outlineInk = color.Black
	textInk    = color.Black
)

// Compose draws the card. A nil record leaves the metadata band empty.
func Compose(photo image.Image, p palette.Palette, rec *metadata.Record, l Layout, face font.Face) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: l.Size})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	draw.Draw(dst, l.Photo, photo, photo.Bounds().Min, draw.Src)

	for i, r := range l.SwatchRects(p) {
		draw.Draw(dst, r, image.NewUniform(p[i].RGBA()), image.Point{}, draw.Src)
		outline(dst, r, outlineInk)
	}

	if rec != nil && face != nil {
		drawLines(dst, face, l.TextOrigin(), l.LineHeight, rec.Lines())
	}

	return dst
}

//--------------------------------------------------------------------------------
// private

// outline strokes the one pixel border just inside r.
func outline(dst draw.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}

	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

func drawLines(dst draw.Image, face font.Face, origin image.Point, lineHeight int, lines []string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textInk),
		Face: face,
	}

	// origin is the top of the text, the drawer wants the baseline
	ascent := face.Metrics().Ascent.Ceil()
	y := origin.Y
	for _, line := range lines {
		d.Dot = fixed.P(origin.X, y+ascent)
		d.DrawString(line)
		y += lineHeight
	}
}
