package palette

import (
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type partition struct {
	centers [][3]float64
	counts  []int
	inertia float64
}

func kmeansPalette(pixels []rgb, k, restarts int) (Palette, error) {
	if restarts < 1 {
		restarts = 1
	}

	dataset := make(clusters.Observations, 0, len(pixels))
	for _, px := range pixels {
		dataset = append(dataset, clusters.Coordinates{
			float64(px[0]),
			float64(px[1]),
			float64(px[2]),
		})
	}

	km := kmeans.New()

	var best *partition
	for i := 0; i < restarts; i++ {
		cc, err := km.Partition(dataset, k)
		if err != nil {
			return nil, err
		}

		part := summarize(dataset, cc)
		if best == nil || part.inertia < best.inertia {
			best = part
		}
	}

	p := make(Palette, 0, len(best.centers))
	for i, c := range best.centers {
		p = append(p, Sample{
			R:     clampChannel(c[0]),
			G:     clampChannel(c[1]),
			B:     clampChannel(c[2]),
			Count: best.counts[i],
		})
	}

	return p, nil
}

// summarize labels every observation with its nearest center exactly once and
// recomputes each centroid from those labels. Partition may stop before its
// last recenter, so its own centers and memberships are not used as is.
func summarize(dataset clusters.Observations, cc clusters.Clusters) *partition {
	part := &partition{
		centers: make([][3]float64, len(cc)),
		counts:  make([]int, len(cc)),
	}

	labels := make([]int, len(dataset))
	for i, obs := range dataset {
		ci := cc.Nearest(obs)
		labels[i] = ci
		part.counts[ci]++

		coords := obs.Coordinates()
		for ch := 0; ch < 3; ch++ {
			part.centers[ci][ch] += coords[ch]
		}
	}

	for ci := range part.centers {
		if part.counts[ci] == 0 {
			for ch := 0; ch < 3 && ch < len(cc[ci].Center); ch++ {
				part.centers[ci][ch] = cc[ci].Center[ch]
			}
			continue
		}
		for ch := 0; ch < 3; ch++ {
			part.centers[ci][ch] /= float64(part.counts[ci])
		}
	}

	for i, obs := range dataset {
		coords := obs.Coordinates()
		c := part.centers[labels[i]]
		for ch := 0; ch < 3; ch++ {
			part.inertia += math.Pow(coords[ch]-c[ch], 2)
		}
	}

	return part
}
