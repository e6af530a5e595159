// Package canvas lays out and draws the composite card: the photo, a swatch
// band sized by color frequency and a block of camera settings.
package canvas

import (
	"image"
	"math"

	"github.com/BitPonyLLC/swatchcard/pkg/metadata"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"
)

// textExtent is the height of one rendered line (ascent plus descent) as a
// multiple of the font size, with headroom for hinting.
const textExtent = 1.3

// Ratios holds the tunable proportions of the card. Fractions are relative to
// the photo's width (Margin, Font) or height (Swatch, Meta).
type Ratios struct {
	Margin      float64 `mapstructure:"margin"`
	Gap         int     `mapstructure:"gap"`
	Swatch      float64 `mapstructure:"swatch"`
	Meta        float64 `mapstructure:"meta"`
	Font        float64 `mapstructure:"font"`
	FontMin     float64 `mapstructure:"font-min"`
	LineSpacing float64 `mapstructure:"line-spacing"`
}

// DefaultRatios returns the proportions used when nothing is configured.
func DefaultRatios() Ratios {
	return Ratios{
		Margin:      0.10,
		Gap:         200,
		Swatch:      0.12,
		Meta:        0.20,
		Font:        0.015,
		FontMin:     18,
		LineSpacing: 1.4,
	}
}

// Layout is the geometry of one card, derived from the photo's size.
type Layout struct {
	Margin       int
	Gap          int
	SwatchHeight int
	MetaHeight   int
	FontSize     float64
	LineHeight   int

	Size   image.Point
	Photo  image.Rectangle
	Swatch image.Rectangle
	Meta   image.Rectangle
}

// NewLayout computes the card geometry for a photo of the given size.
func NewLayout(size image.Point, r Ratios) Layout {
	w, h := size.X, size.Y

	l := Layout{
		Margin:       int(float64(w) * r.Margin),
		Gap:          r.Gap,
		SwatchHeight: int(float64(h) * r.Swatch),
		MetaHeight:   int(float64(h) * r.Meta),
		FontSize:     math.Max(float64(w)*r.Font, r.FontMin),
	}

	// the text starts half a margin into the band and must end on the canvas
	room := l.MetaHeight + l.Margin - l.Margin/2
	l.FontSize = fitFont(l.FontSize, r.LineSpacing, len(metadata.Keys), room)

	l.LineHeight = lineHeight(l.FontSize, r.LineSpacing)
	l.Size = image.Pt(
		w+2*l.Margin,
		h+l.Gap+l.SwatchHeight+l.MetaHeight+2*l.Margin,
	)

	l.Photo = image.Rect(l.Margin, l.Margin, l.Margin+w, l.Margin+h)

	swatchY := l.Photo.Max.Y + l.Gap
	l.Swatch = image.Rect(l.Margin, swatchY, l.Margin+w, swatchY+l.SwatchHeight)
	l.Meta = image.Rect(l.Margin, l.Swatch.Max.Y, l.Margin+w, l.Swatch.Max.Y+l.MetaHeight)

	return l
}

// TextOrigin is the top-left corner of the first metadata line.
func (l Layout) TextOrigin() image.Point {
	return image.Pt(l.Meta.Min.X, l.Meta.Min.Y+l.Margin/2)
}

// SwatchRects splits the swatch band into one rectangle per sample, each as
// wide as the sample's share of the palette. The rectangles tile the band
// exactly; the last one always ends at the band's right edge.
func (l Layout) SwatchRects(p palette.Palette) []image.Rectangle {
	rects := make([]image.Rectangle, 0, len(p))
	total := p.Total()
	if total <= 0 || len(p) == 0 {
		return rects
	}

	width := l.Swatch.Dx()
	cumulative := 0
	x0 := l.Swatch.Min.X
	for i, s := range p {
		cumulative += s.Count

		x1 := l.Swatch.Min.X + int(int64(cumulative)*int64(width)/int64(total))
		if i == len(p)-1 {
			x1 = l.Swatch.Max.X
		}

		rects = append(rects, image.Rect(x0, l.Swatch.Min.Y, x1, l.Swatch.Max.Y))
		x0 = x1
	}

	return rects
}

//--------------------------------------------------------------------------------
// private

func lineHeight(size, spacing float64) int {
	return int(math.Ceil(size * spacing))
}

// textHeight is the distance from the top of the first of n lines to the
// bottom of the last.
func textHeight(size, spacing float64, n int) int {
	if n < 1 {
		return 0
	}
	return (n-1)*lineHeight(size, spacing) + int(math.Ceil(size*textExtent))
}

// fitFont shrinks size in quarter points until n lines fit in room. Sizes that
// already fit are returned unchanged.
func fitFont(size, spacing float64, n, room int) float64 {
	if textHeight(size, spacing, n) <= room {
		return size
	}

	if n > 0 {
		estimate := float64(room) / (float64(n-1)*spacing + textExtent)
		size = math.Min(size, math.Floor(estimate*4)/4)
	}

	for size > 1 && textHeight(size, spacing, n) > room {
		size -= 0.25
	}

	return math.Max(size, 1)
}
