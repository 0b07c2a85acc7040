package cube

import "math"

// kMeansMaxIterations bounds the Lloyd refinement loop; 27 samples in 6
// clusters converge in a handful of passes.
const kMeansMaxIterations = 50

// ambiguityMargin is the minimum Lab-distance gap between a cluster
// centroid's nearest and second-nearest canonical color. A smaller gap means
// the cluster sits between two reference colors and its label is a guess.
const ambiguityMargin = 6.0

// ClassifyColors clusters the sampled Lab colors into six groups and labels
// each group with its nearest canonical sticker color. Clustering is
// unsupervised and seeded from the samples themselves, so the grouping adapts
// to the photograph's lighting instead of assuming fixed hue ranges; only the
// final cluster labeling consults the reference colors.
//
// Distinct clusters may share a label: a frame rarely shows all six colors,
// and the surplus clusters then split the most spread-out color group.
//
// The returned labels always cover every sample. A cluster whose centroid is
// nearly equidistant from two reference colors is reported as a
// ColorAmbiguous soft failure alongside the best-guess labels, so the caller
// can still run closest-match ranking on the reading.
func ClassifyColors(samples []LabColor) ([]Color, *DetectionError) {
	if len(samples) < colorCount {
		return nil, detectFailf(ColorAmbiguous, "only %d samples for %d clusters", len(samples), colorCount)
	}

	centroids := seedCentroids(samples)
	assign := make([]int, len(samples))

	for iter := 0; iter < kMeansMaxIterations; iter++ {
		changed := false
		for i, s := range samples {
			best := nearestCentroid(s, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		var sums [colorCount]LabColor
		var counts [colorCount]int
		for i, s := range samples {
			c := assign[i]
			sums[c].L += s.L
			sums[c].A += s.A
			sums[c].B += s.B
			counts[c]++
		}
		for c := 0; c < colorCount; c++ {
			if counts[c] == 0 {
				// Empty cluster: leave its centroid where it was seeded.
				continue
			}
			n := float64(counts[c])
			centroids[c] = LabColor{L: sums[c].L / n, A: sums[c].A / n, B: sums[c].B / n}
		}
	}

	var populated [colorCount]bool
	for _, c := range assign {
		populated[c] = true
	}

	mapping, warn := labelClusters(centroids, populated)

	labels := make([]Color, len(samples))
	for i := range samples {
		labels[i] = mapping[assign[i]]
	}
	return labels, warn
}

// labelClusters assigns each populated cluster the canonical color nearest
// its centroid. The gap to the second-nearest reference is the confidence
// signal: a centroid sitting between two references gets its nearest label
// but raises a ColorAmbiguous warning.
func labelClusters(centroids [colorCount]LabColor, populated [colorCount]bool) ([colorCount]Color, *DetectionError) {
	var mapping [colorCount]Color
	var warn *DetectionError

	for cluster := 0; cluster < colorCount; cluster++ {
		if !populated[cluster] {
			continue
		}

		best, second := math.MaxFloat64, math.MaxFloat64
		for canon := Color(0); canon < colorCount; canon++ {
			d := centroids[cluster].DistanceTo(canonicalLab[canon])
			if d < best {
				second = best
				best = d
				mapping[cluster] = canon
			} else if d < second {
				second = d
			}
		}

		if warn == nil && second-best < ambiguityMargin {
			warn = detectFailf(ColorAmbiguous,
				"cluster centroid sits between %s and another reference color (margin %.1f)",
				mapping[cluster], second-best)
		}
	}
	return mapping, warn
}

// seedCentroids picks six initial centroids deterministically by
// farthest-point traversal: start from the sample farthest from the global
// mean, then repeatedly take the sample farthest from everything chosen so
// far. Ties resolve to the lowest sample index.
func seedCentroids(samples []LabColor) [colorCount]LabColor {
	var mean LabColor
	for _, s := range samples {
		mean.L += s.L
		mean.A += s.A
		mean.B += s.B
	}
	n := float64(len(samples))
	mean = LabColor{L: mean.L / n, A: mean.A / n, B: mean.B / n}

	var centroids [colorCount]LabColor
	chosen := make([]LabColor, 0, colorCount)

	first, bestDist := 0, -1.0
	for i, s := range samples {
		if d := s.DistanceTo(mean); d > bestDist {
			bestDist = d
			first = i
		}
	}
	chosen = append(chosen, samples[first])

	for len(chosen) < colorCount {
		next, farthest := 0, -1.0
		for i, s := range samples {
			nearest := math.MaxFloat64
			for _, c := range chosen {
				if d := s.DistanceTo(c); d < nearest {
					nearest = d
				}
			}
			if nearest > farthest {
				farthest = nearest
				next = i
			}
		}
		chosen = append(chosen, samples[next])
	}

	copy(centroids[:], chosen)
	return centroids
}

func nearestCentroid(s LabColor, centroids [colorCount]LabColor) int {
	best, bestDist := 0, math.MaxFloat64
	for c, centroid := range centroids {
		if d := s.DistanceTo(centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
