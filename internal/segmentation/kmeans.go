package segmentation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// KMeans is a seeded k-means++ clusterer. Restarts independent
// initialisations are run and the one with the lowest inertia is kept; on
// equal inertia the earliest wins.
type KMeans struct {
	K             int
	Seed          int64
	Restarts      int
	MaxIterations int
	Tolerance     float64
}

// Clustering is the outcome of a k-means fit
type Clustering struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// Sizes returns the number of points per cluster
func (c *Clustering) Sizes() []int {
	sizes := make([]int, len(c.Centroids))
	for _, l := range c.Labels {
		sizes[l]++
	}
	return sizes
}

// Fit clusters points. It needs at least K points.
func (km KMeans) Fit(ctx context.Context, points [][]float64) (*Clustering, error) {
	if km.K <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", km.K)
	}
	if len(points) < km.K {
		return nil, fmt.Errorf("need at least %d points, got %d", km.K, len(points))
	}

	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = 300
	}
	tol := km.Tolerance * meanVariance(points)

	rng := rand.New(rand.NewSource(km.Seed))

	var best *Clustering
	for r := 0; r < restarts; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		centroids := seedPlusPlus(points, km.K, rng)
		result := lloyd(points, centroids, maxIter, tol)
		if best == nil || result.Inertia < best.Inertia {
			best = result
		}
	}
	return best, nil
}

// seedPlusPlus picks K initial centroids with D² weighting
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(n)]))

	dist := make([]float64, n)
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range dist {
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if d > 0 && acc >= target {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Remaining points coincide with chosen centroids.
			next = firstPositive(dist)
			if next < 0 {
				next = rng.Intn(n)
			}
		}

		c := clonePoint(points[next])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// lloyd refines centroids until the total squared shift drops to tol or
// maxIter is reached
func lloyd(points, centroids [][]float64, maxIter int, tol float64) *Clustering {
	k := len(centroids)
	width := len(points[0])
	labels := make([]int, len(points))

	iter := 0
	for iter < maxIter {
		iter++
		assign(points, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, width)
		}
		for i, p := range points {
			l := labels[i]
			counts[l]++
			for j, v := range p {
				sums[l][j] += v
			}
		}

		for c := range counts {
			if counts[c] == 0 {
				reseed(points, centroids, labels, sums, counts, c)
			}
		}

		next := make([][]float64, k)
		for c := range next {
			if counts[c] == 0 {
				next[c] = clonePoint(centroids[c])
				continue
			}
			next[c] = make([]float64, width)
			for j := range sums[c] {
				next[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		shift := 0.0
		for c := range next {
			shift += sqDist(next[c], centroids[c])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	return &Clustering{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

// assign labels each point with its nearest centroid, lowest index on ties,
// and returns the inertia
func assign(points, centroids [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

// reseed moves the point farthest from its centroid, among clusters that can
// give up a member, into the empty cluster c and updates the running sums
func reseed(points, centroids [][]float64, labels []int, sums [][]float64, counts []int, c int) {
	idx, far := -1, -1.0
	for i, p := range points {
		if counts[labels[i]] < 2 {
			continue
		}
		if d := sqDist(p, centroids[labels[i]]); d > far {
			idx, far = i, d
		}
	}
	if idx < 0 {
		return
	}

	donor := labels[idx]
	for j, v := range points[idx] {
		sums[donor][j] -= v
		sums[c][j] += v
	}
	counts[donor]--
	counts[c]++
	labels[idx] = c
}

func meanVariance(points [][]float64) float64 {
	scaler := FitStandardScaler(points)
	if len(scaler.Std) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scaler.Std {
		total += s * s
	}
	return total / float64(len(scaler.Std))
}

func firstPositive(values []float64) int {
	for i, v := range values {
		if v > 0 {
			return i
		}
	}
	return -1
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
