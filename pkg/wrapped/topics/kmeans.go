package topics

import (
	"math"
	"math/rand"
	"sort"
)

// DefaultMaxIterations bounds the k-means refinement loop.
const DefaultMaxIterations = 25

// Cluster groups weekly documents around a centroid in term space. Members
// holds indices into the vector slice the cluster was built from.
type Cluster struct {
	ID       int
	Centroid TermVector
	Members  []int
	TopTerms []string
}

// KMeans partitions vectors into k clusters using k-means++ seeding. The
// caller supplies the random source so clustering is reproducible under a
// fixed seed. With at most k vectors each becomes its own centroid. The
// loop exits early only once assignments stop changing, which cannot alter
// the result.
func KMeans(vectors []TermVector, k, maxIterations int, rng *rand.Rand) []Cluster {
	if len(vectors) == 0 || k <= 0 {
		return nil
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	if len(vectors) <= k {
		clusters := make([]Cluster, len(vectors))
		for i, v := range vectors {
			clusters[i] = Cluster{
				ID:       i,
				Centroid: v.clone(),
				Members:  []int{i},
				TopTerms: topTerms(v, 5),
			}
		}
		return clusters
	}

	centroids := seedCentroids(vectors, k, rng)
	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		// Recompute non-empty centroids; an empty cluster keeps its
		// previous centroid rather than being reseeded.
		for c := range centroids {
			var members []int
			for i, a := range assignments {
				if a == c {
					members = append(members, i)
				}
			}
			if len(members) == 0 {
				continue
			}
			centroids[c] = meanVector(vectors, members)
		}
	}

	clusters := make([]Cluster, k)
	for c := range clusters {
		clusters[c] = Cluster{
			ID:       c,
			Centroid: centroids[c],
			TopTerms: topTerms(centroids[c], 5),
		}
	}
	for i, a := range assignments {
		clusters[a].Members = append(clusters[a].Members, i)
	}
	return clusters
}

// seedCentroids implements k-means++: the first centroid is uniform random,
// each further one is drawn with probability proportional to its squared
// distance from the nearest already-chosen centroid.
func seedCentroids(vectors []TermVector, k int, rng *rand.Rand) []TermVector {
	chosen := make([]int, 0, k)
	chosenSet := make(map[int]struct{}, k)
	first := rng.Intn(len(vectors))
	chosen = append(chosen, first)
	chosenSet[first] = struct{}{}

	for len(chosen) < k {
		weights := make([]float64, len(vectors))
		var total float64
		for i, v := range vectors {
			if _, ok := chosenSet[i]; ok {
				continue
			}
			best := math.Inf(1)
			for _, c := range chosen {
				if d := sqDistance(v, vectors[c]); d < best {
					best = d
				}
			}
			weights[i] = best
			total += best
		}

		next := -1
		if total > 0 {
			r := rng.Float64() * total
			for i, w := range weights {
				if _, ok := chosenSet[i]; ok {
					continue
				}
				r -= w
				if r <= 0 {
					next = i
					break
				}
			}
		}
		if next == -1 {
			// Remaining candidates coincide with chosen centroids (or
			// rounding ran past the total); take the first unchosen.
			for i := range vectors {
				if _, ok := chosenSet[i]; !ok {
					next = i
					break
				}
			}
		}
		chosen = append(chosen, next)
		chosenSet[next] = struct{}{}
	}

	centroids := make([]TermVector, k)
	for i, idx := range chosen {
		centroids[i] = vectors[idx].clone()
	}
	return centroids
}

// nearestCentroid returns the index of the closest centroid, preferring the
// lowest index on exact ties so assignment is deterministic.
func nearestCentroid(v TermVector, centroids []TermVector) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDistance(v, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// sqDistance is the squared Euclidean distance over the union of the two
// sparse key sets; missing keys count as zero.
func sqDistance(a, b TermVector) float64 {
	var sum float64
	for term, av := range a {
		d := av - b[term]
		sum += d * d
	}
	for term, bv := range b {
		if _, ok := a[term]; !ok {
			sum += bv * bv
		}
	}
	return sum
}

// meanVector averages the member vectors term by term.
func meanVector(vectors []TermVector, members []int) TermVector {
	mean := make(TermVector)
	for _, i := range members {
		for term, w := range vectors[i] {
			mean[term] += w
		}
	}
	inv := 1.0 / float64(len(members))
	for term := range mean {
		mean[term] *= inv
	}
	return mean
}

// topTerms ranks a vector's terms by descending weight, breaking ties
// alphabetically, capped at n.
func topTerms(v TermVector, n int) []string {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		wi, wj := v[terms[i]], v[terms[j]]
		if wi != wj {
			return wi > wj
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
