package segment

import (
	"fmt"
	"math"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// SweepPoint is one candidate cluster count with its model-selection
// scores.
type SweepPoint struct {
	K          int
	Inertia    float64
	Silhouette float64
}

// Sweep fits K-means for every k in [2, maxK] and records inertia (elbow
// method) and mean silhouette score. The result is advisory chart input;
// segmentation always uses the configured cluster count.
func Sweep(customers []retail.CustomerRFM, maxK int, seed int64) ([]SweepPoint, error) {
	if maxK < 2 {
		return nil, fmt.Errorf("segment: sweep needs maxK >= 2, got %d", maxK)
	}
	if len(customers) <= maxK {
		return nil, fmt.Errorf("segment: %d customers are too few to sweep up to k=%d", len(customers), maxK)
	}

	scaled := scale(featureMatrix(customers))
	points := make([]SweepPoint, 0, maxK-1)
	for k := 2; k <= maxK; k++ {
		result, err := kMeans(scaled, k, seed)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{
			K:          k,
			Inertia:    result.inertia,
			Silhouette: silhouette(scaled, result.assignments, k),
		})
	}
	return points, nil
}

// BestK returns the sweep entry with the highest silhouette score.
func BestK(points []SweepPoint) int {
	best, bestScore := 0, math.Inf(-1)
	for _, p := range points {
		if p.Silhouette > bestScore {
			best, bestScore = p.K, p.Silhouette
		}
	}
	return best
}

// silhouette is the mean silhouette coefficient over all points. Points in
// singleton clusters contribute zero, matching the usual convention.
func silhouette(points [][]float64, assignments []int, k int) float64 {
	n := len(points)
	counts := make([]int, k)
	for _, c := range assignments {
		counts[c]++
	}

	total := 0.0
	dists := make([]float64, k)
	for i, p := range points {
		own := assignments[i]
		if counts[own] <= 1 {
			continue
		}

		for c := range dists {
			dists[c] = 0
		}
		for j, q := range points {
			if i == j {
				continue
			}
			dists[assignments[j]] += math.Sqrt(squaredDistance(p, q))
		}

		a := dists[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if mean := dists[c] / float64(counts[c]); mean < b {
				b = mean
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n)
}
