// Package palette finds the dominant colors of an image and how many pixels
// each of them covers.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Method selects the clustering routine used by Extract.
type Method int

const (
	// MethodKMeans runs k-means with several random restarts and keeps the
	// tightest partition.
	MethodKMeans Method = iota
	// MethodProminent uses the prominentcolor k-means++ implementation.
	MethodProminent
	// MethodWeighted uses dominantcolor and turns its weights into counts.
	MethodWeighted
)

const (
	DefaultCount        = 6
	DefaultAnalysisSize = 200
	DefaultRestarts     = 10
)

var (
	ErrInvalidCount = errors.New("swatch count must be at least 1")
	ErrTooFewColors = errors.New("not enough distinct colors")
	ErrEmptyImage   = errors.New("image has no pixels")
)

var methodNames = map[Method]string{
	MethodKMeans:    "kmeans",
	MethodProminent: "prominent",
	MethodWeighted:  "weighted",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod converts a method name (as reported by String) into a Method.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return MethodKMeans, fmt.Errorf("unknown palette method: %s", name)
}

// Options controls how Extract analyzes an image.
type Options struct {
	// Count is the number of colors to return.
	Count int
	// AnalysisSize bounds both dimensions of the copy that gets clustered.
	// Zero analyzes the full resolution image.
	AnalysisSize uint
	// Restarts is the number of k-means runs for MethodKMeans.
	Restarts int
	Method   Method
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Count:        DefaultCount,
		AnalysisSize: DefaultAnalysisSize,
		Restarts:     DefaultRestarts,
		Method:       MethodKMeans,
	}
}

// Sample is one dominant color and the number of analyzed pixels it stands
// for.
type Sample struct {
	R, G, B uint8
	Count   int
}

// RGBA returns the opaque color of the sample.
func (s Sample) RGBA() color.RGBA {
	return color.RGBA{R: s.R, G: s.G, B: s.B, A: 255}
}

// Hex renders the sample as #rrggbb.
func (s Sample) Hex() string {
	c, _ := colorful.MakeColor(s.RGBA())
	return c.Hex()
}

// Share is the fraction of total covered by the sample.
func (s Sample) Share(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(s.Count) / float64(total)
}

// Palette is a list of samples ordered from most to least frequent.
type Palette []Sample

// Total is the number of pixels the palette was computed from.
func (p Palette) Total() int {
	total := 0
	for _, s := range p {
		total += s.Count
	}
	return total
}

// Extract computes opts.Count dominant colors of img. The returned palette
// always has exactly opts.Count samples whose counts add up to the number of
// analyzed pixels.
func Extract(img image.Image, opts Options) (Palette, error) {
	if opts.Count < 1 {
		return nil, ErrInvalidCount
	}

	small := Downscale(img, opts.AnalysisSize)
	pixels := flatten(small)
	if len(pixels) == 0 {
		return nil, ErrEmptyImage
	}

	distinct := countDistinct(pixels)
	if opts.Count > distinct {
		return nil, fmt.Errorf("%w: asked for %d but the analyzed image has %d", ErrTooFewColors, opts.Count, distinct)
	}

	var p Palette
	var err error

	switch opts.Method {
	case MethodKMeans:
		p, err = kmeansPalette(pixels, opts.Count, opts.Restarts)
	case MethodProminent:
		p, err = prominentPalette(small, opts.Count)
	case MethodWeighted:
		p, err = weightedPalette(small, len(pixels), opts.Count)
	default:
		return nil, fmt.Errorf("unsupported palette method: %s", opts.Method)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to cluster colors with %s: %w", opts.Method, err)
	}

	if len(p) != opts.Count {
		return nil, fmt.Errorf("%w: %s found %d of %d colors", ErrTooFewColors, opts.Method, len(p), opts.Count)
	}

	// stable so equal counts keep the clustering routine's label order
	sort.SliceStable(p, func(i, j int) bool { return p[i].Count > p[j].Count })
	return p, nil
}

// Downscale fits img into a size×size box with a Lanczos filter. Images that
// already fit, and a size of zero, return img unchanged.
func Downscale(img image.Image, size uint) image.Image {
	if size == 0 {
		return img
	}
	return resize.Thumbnail(size, size, img, resize.Lanczos3)
}

//--------------------------------------------------------------------------------
// private

type rgb [3]uint8

func flatten(img image.Image) []rgb {
	b := img.Bounds()
	pixels := make([]rgb, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, rgb{c.R, c.G, c.B})
		}
	}
	return pixels
}

func countDistinct(pixels []rgb) int {
	seen := make(map[rgb]struct{})
	for _, px := range pixels {
		seen[px] = struct{}{}
	}
	return len(seen)
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v) // truncates like an integer cast of the centroid
}
