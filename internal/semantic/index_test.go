package semantic

import (
	"testing"
)

func TestFlatIndex_AddAndSearch(t *testing.T) {
	idx := NewFlatIndex(2)
	idx.Add(
		[]int64{1, 2, 3},
		[][]float32{{0, 0}, {3, 4}, {1, 0}},
	)

	if idx.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", idx.Size())
	}

	dists, ids := idx.Search([]float32{0, 0}, 2)
	if len(ids) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(ids))
	}
	if ids[0] != 1 || ids[1] != 3 {
		t.Errorf("Search() ids = %v, want [1 3]", ids)
	}
	if dists[0] != 0 {
		t.Errorf("nearest distance = %v, want 0", dists[0])
	}
	if dists[1] != 1 {
		t.Errorf("second distance = %v, want 1 (squared L2)", dists[1])
	}
}

func TestFlatIndex_SquaredDistance(t *testing.T) {
	idx := NewFlatIndex(2)
	idx.Add([]int64{1}, [][]float32{{3, 4}})

	dists, _ := idx.Search([]float32{0, 0}, 1)
	if dists[0] != 25 {
		t.Errorf("distance = %v, want 25 (squared, not 5)", dists[0])
	}
}

func TestFlatIndex_FewerThanK(t *testing.T) {
	idx := NewFlatIndex(3)
	idx.Add([]int64{7}, [][]float32{{1, 2, 3}})

	dists, ids := idx.Search([]float32{1, 2, 3}, 10)
	if len(ids) != 1 || len(dists) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(ids))
	}
	if ids[0] != 7 {
		t.Errorf("Search() ids = %v, want [7]", ids)
	}
}

func TestFlatIndex_EmptyIndex(t *testing.T) {
	idx := NewFlatIndex(2)

	dists, ids := idx.Search([]float32{0, 0}, 5)
	if dists != nil || ids != nil {
		t.Errorf("Search() on empty index = (%v, %v), want (nil, nil)", dists, ids)
	}
}

func TestFlatIndex_DuplicateIDsKeepBothEntries(t *testing.T) {
	idx := NewFlatIndex(1)
	idx.Add([]int64{1, 1}, [][]float32{{0}, {10}})

	if idx.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 (no deduplication)", idx.Size())
	}

	_, ids := idx.Search([]float32{0}, 2)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 1 {
		t.Errorf("Search() ids = %v, want [1 1]", ids)
	}
}

func TestFlatIndex_TiesKeepInsertionOrder(t *testing.T) {
	idx := NewFlatIndex(1)
	idx.Add([]int64{5, 9, 2}, [][]float32{{1}, {1}, {1}})

	_, ids := idx.Search([]float32{0}, 3)
	want := []int64{5, 9, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Search() ids = %v, want %v (ties in insertion order)", ids, want)
		}
	}
}

func TestFlatIndex_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{
			name: "zero dimension",
			fn:   func() { NewFlatIndex(0) },
		},
		{
			name: "id and vector count mismatch",
			fn: func() {
				NewFlatIndex(2).Add([]int64{1, 2}, [][]float32{{0, 0}})
			},
		},
		{
			name: "vector dimension mismatch",
			fn: func() {
				NewFlatIndex(2).Add([]int64{1}, [][]float32{{0, 0, 0}})
			},
		},
		{
			name: "query dimension mismatch",
			fn: func() {
				idx := NewFlatIndex(2)
				idx.Add([]int64{1}, [][]float32{{0, 0}})
				idx.Search([]float32{0}, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic, got none")
				}
			}()
			tt.fn()
		})
	}
}
