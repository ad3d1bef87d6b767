package schedule

import "math/rand/v2"

// sample bounds results to at most max entries. If len(results) <= max (or
// max is negative, meaning unbounded), results is returned unchanged.
// Otherwise a uniform sample of max results is drawn without replacement,
// driven by an
// explicit per-call source so runs are reproducible for a given seed and
// never depend on global RNG state.
func sample[T any](results []T, max int, seed *int64) []T {
	if max < 0 || len(results) <= max {
		return results
	}

	var src rand.Source
	if seed != nil {
		src = rand.NewPCG(uint64(*seed), uint64(*seed>>32)+1)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	r := rand.New(src)

	// Reservoir sampling (Algorithm R): fills the reservoir with the first
	// max results, then replaces entries with decreasing probability as
	// later results are considered, giving each of the n results an equal
	// max/n chance of inclusion without materializing a second full copy.
	reservoir := make([]T, max)
	copy(reservoir, results[:max])
	for i := max; i < len(results); i++ {
		k := r.IntN(i + 1)
		if k < max {
			reservoir[k] = results[i]
		}
	}
	return reservoir
}
