package semantic

import (
	"fmt"
	"sort"
)

// FlatIndex is an id-addressable exact nearest-neighbor index over fixed
// dimension vectors, using squared Euclidean distance. It is append-only:
// entries are never updated or deleted, and adding an id twice yields two
// entries with undefined ranking ties. Once a build has finished the index
// is treated as immutable and is safe for concurrent readers.
type FlatIndex struct {
	dim  int
	ids  []int64
	data []float32 // row-major, len(ids)*dim
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
// A non-positive dimension is a programming defect and panics.
func NewFlatIndex(dim int) *FlatIndex {
	if dim <= 0 {
		panic(fmt.Sprintf("invalid index dimension: %d", dim))
	}
	return &FlatIndex{dim: dim}
}

// Dim returns the vector dimension of the index
func (idx *FlatIndex) Dim() int {
	return idx.dim
}

// Size returns the number of stored entries
func (idx *FlatIndex) Size() int {
	return len(idx.ids)
}

// Add appends vectors keyed by ids. len(ids) must equal len(vectors) and
// every vector must match the index dimension; violations are programming
// defects and panic rather than returning an error.
func (idx *FlatIndex) Add(ids []int64, vectors [][]float32) {
	if len(ids) != len(vectors) {
		panic(fmt.Sprintf("id/vector count mismatch: %d ids, %d vectors", len(ids), len(vectors)))
	}
	for i, vec := range vectors {
		if len(vec) != idx.dim {
			panic(fmt.Sprintf("vector %d has dimension %d, index dimension is %d", i, len(vec), idx.dim))
		}
	}

	idx.ids = append(idx.ids, ids...)
	for _, vec := range vectors {
		idx.data = append(idx.data, vec...)
	}
}

// Search returns up to k entries nearest to query by squared Euclidean
// distance, ascending, with ties kept in insertion order. Callers must
// tolerate fewer than k results when the index holds fewer entries.
func (idx *FlatIndex) Search(query []float32, k int) (distances []float32, ids []int64) {
	if len(query) != idx.dim {
		panic(fmt.Sprintf("query has dimension %d, index dimension is %d", len(query), idx.dim))
	}
	if k <= 0 || len(idx.ids) == 0 {
		return nil, nil
	}

	order := make([]int, len(idx.ids))
	dists := make([]float32, len(idx.ids))
	for i := range idx.ids {
		order[i] = i
		dists[i] = l2Squared(query, idx.data[i*idx.dim:(i+1)*idx.dim])
	}

	sort.SliceStable(order, func(a, b int) bool {
		return dists[order[a]] < dists[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	distances = make([]float32, k)
	ids = make([]int64, k)
	for i := 0; i < k; i++ {
		distances[i] = dists[order[i]]
		ids[i] = idx.ids[order[i]]
	}
	return distances, ids
}

// l2Squared computes squared Euclidean distance between equal-length vectors
func l2Squared(a, b []float32) float32 {
	var sum float32
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
