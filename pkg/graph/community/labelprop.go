package community

import (
	"maps"
	"math/rand/v2"
	"slices"
)

// maxLabelRounds bounds asynchronous label propagation on graphs where
// labels keep oscillating.
const maxLabelRounds = 100

// labelPropagation visits nodes in a shuffled order and moves each to the
// label most common among its neighbors, choosing randomly among ties. A
// node keeps its label when it is already among the most common.
func labelPropagation(v *view, rng *rand.Rand) []int {
	labels := identity(v.n)
	order := identity(v.n)
	freq := make(map[int]int)

	for round := 0; round < maxLabelRounds; round++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		changed := false
		for _, i := range order {
			if len(v.adj[i]) == 0 {
				continue
			}
			clear(freq)
			top := 0
			for _, j := range v.adj[i] {
				freq[labels[j]]++
				top = max(top, freq[labels[j]])
			}
			if freq[labels[i]] == top {
				continue
			}
			var best []int
			for _, l := range slices.Sorted(maps.Keys(freq)) {
				if freq[l] == top {
					best = append(best, l)
				}
			}
			labels[i] = best[rng.IntN(len(best))]
			changed = true
		}
		if !changed {
			break
		}
	}
	return labels
}
