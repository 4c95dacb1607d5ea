package community

import (
	"maps"
	"slices"
)

// gainEpsilon keeps float noise from producing endless zero-gain merges.
const gainEpsilon = 1e-12

// greedyModularity is Clauset-Newman-Moore agglomeration: starting from
// singletons, repeatedly merge the connected pair of communities with the
// largest modularity gain until no merge gains. Ties go to the lowest pair.
func greedyModularity(v *view) []int {
	assign := identity(v.n)
	if v.m == 0 {
		return assign
	}
	m2 := 2 * v.m

	// between[a][b] counts edges between communities a and b.
	between := make([]map[int]float64, v.n)
	a := make([]float64, v.n)
	for i := 0; i < v.n; i++ {
		between[i] = make(map[int]float64, len(v.adj[i]))
		for _, j := range v.adj[i] {
			between[i][j] = 1
		}
		a[i] = v.deg[i] / m2
	}
	members := make([][]int, v.n)
	for i := range members {
		members[i] = []int{i}
	}

	for {
		bi, bj, best := -1, -1, 0.0
		for i := 0; i < v.n; i++ {
			if between[i] == nil {
				continue
			}
			for _, j := range slices.Sorted(maps.Keys(between[i])) {
				if j <= i {
					continue
				}
				dq := 2 * (between[i][j]/m2 - a[i]*a[j])
				if dq > best+gainEpsilon {
					bi, bj, best = i, j, dq
				}
			}
		}
		if bi < 0 {
			break
		}

		// Merge bj into bi.
		for k, w := range between[bj] {
			if k == bi {
				continue
			}
			between[bi][k] += w
			between[k][bi] += w
			delete(between[k], bj)
		}
		delete(between[bi], bj)
		between[bj] = nil
		a[bi] += a[bj]
		members[bi] = append(members[bi], members[bj]...)
		members[bj] = nil
	}

	for c, ms := range members {
		for _, i := range ms {
			assign[i] = c
		}
	}
	return assign
}
