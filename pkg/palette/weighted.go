package palette

import (
	"image"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"gonum.org/v1/gonum/floats"
)

func weightedPalette(img image.Image, analyzed, k int) (Palette, error) {
	found := dominantcolor.FindWeight(img, k)
	if len(found) == 0 {
		return nil, ErrTooFewColors
	}

	weights := make([]float64, len(found))
	for i, c := range found {
		weights[i] = math.Max(c.Weight, 0)
	}

	counts := apportion(weights, analyzed)

	p := make(Palette, 0, len(found))
	for i, c := range found {
		p = append(p, Sample{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, Count: counts[i]})
	}

	return p, nil
}

// apportion splits total into integer parts proportional to weights using the
// largest remainder method, so the parts always add up to total.
func apportion(weights []float64, total int) []int {
	counts := make([]int, len(weights))
	if len(weights) == 0 {
		return counts
	}

	sum := floats.Sum(weights)
	if sum <= 0 {
		// nothing to go on, split evenly
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(len(weights))
	}

	shares := make([]float64, len(weights))
	copy(shares, weights)
	floats.Scale(float64(total)/sum, shares)

	assigned := 0
	remainders := make([]int, len(shares))
	for i, s := range shares {
		counts[i] = int(math.Floor(s))
		assigned += counts[i]
		remainders[i] = i
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		ra := shares[remainders[a]] - math.Floor(shares[remainders[a]])
		rb := shares[remainders[b]] - math.Floor(shares[remainders[b]])
		return ra > rb
	})

	for i := 0; assigned < total; i++ {
		counts[remainders[i%len(remainders)]]++
		assigned++
	}

	return counts
}
