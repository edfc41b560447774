package segment

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const maxIterations = 100

// kmeansResult is a converged clustering of the scaled feature matrix.
type kmeansResult struct {
	assignments []int
	centroids   [][]float64
	inertia     float64
}

// kMeans clusters points into k groups. All randomness flows through a
// PRNG built from seed, nearest-centroid ties resolve to the lowest
// centroid index, and empty clusters are reseeded deterministically, so a
// fixed (points, k, seed) triple always produces the same result.
func kMeans(points [][]float64, k int, seed int64) (kmeansResult, error) {
	if k < 1 {
		return kmeansResult{}, fmt.Errorf("kmeans: cluster count must be positive, got %d", k)
	}
	if len(points) < k {
		return kmeansResult{}, fmt.Errorf("kmeans: %d points cannot fill %d clusters", len(points), k)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initialCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			c := nearestCentroid(p, centroids)
			if assignments[i] != c {
				assignments[i] = c
				changed = true
			}
		}

		recomputeCentroids(points, assignments, centroids)
		reseedEmptyClusters(points, assignments, centroids)

		if !changed && iter > 0 {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assignments[i]])
	}
	return kmeansResult{assignments: assignments, centroids: centroids, inertia: inertia}, nil
}

// initialCentroids runs k-means++ seeding: the first centroid is a uniform
// draw, each subsequent one a draw weighted by squared distance to the
// nearest centroid chosen so far.
func initialCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	dims := len(points[0])
	centroids := make([][]float64, 0, k)

	first := append([]float64(nil), points[rng.Intn(len(points))]...)
	centroids = append(centroids, first)

	weights := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(p, c); sq < d {
					d = sq
				}
			}
			weights[i] = d
			total += d
		}

		var next []float64
		if total == 0 {
			// All remaining points coincide with a centroid.
			next = points[rng.Intn(len(points))]
		} else {
			r := rng.Float64() * total
			cum := 0.0
			next = points[len(points)-1]
			for i, w := range weights {
				cum += w
				if r < cum {
					next = points[i]
					break
				}
			}
		}
		centroids = append(centroids, append(make([]float64, 0, dims), next...))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func recomputeCentroids(points [][]float64, assignments []int, centroids [][]float64) {
	dims := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, p := range points {
		c := assignments[i]
		counts[c]++
		floats.Add(sums[c], p)
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue // handled by reseedEmptyClusters
		}
		for d := 0; d < dims; d++ {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

// reseedEmptyClusters moves each empty centroid onto the point currently
// farthest from its own centroid. Argmax scans in index order, so ties
// resolve to the lowest point index.
func reseedEmptyClusters(points [][]float64, assignments []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	for _, c := range assignments {
		counts[c]++
	}
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		farthest, farthestDist := 0, -1.0
		for i, p := range points {
			if counts[assignments[i]] <= 1 {
				continue
			}
			if d := squaredDistance(p, centroids[assignments[i]]); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		counts[assignments[farthest]]--
		assignments[farthest] = c
		counts[c] = 1
		copy(centroids[c], points[farthest])
	}
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
