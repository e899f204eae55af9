// Package vectorindex implements an exact nearest-neighbor index over a
// fixed set of vectors using squared Euclidean distance, plus the two
// persisted artifacts it lives in: the vector blob and the slot-to-ID
// mapping. The index is immutable once built; the only way to change its
// contents is a full rebuild.
package vectorindex

import (
	"fmt"
	"sort"

	"hostelhaven/internal/domain"
)

// Hit is one search result: a slot into the index and its squared L2
// distance from the query. Smaller distance means more similar.
type Hit struct {
	Slot     int
	Distance float32
}

// Index holds all vectors in memory. Safe for concurrent Search calls
// after construction; Add must not race with Search.
type Index struct {
	dim     int
	vectors [][]float32
	model   string
}

// New creates an empty index for vectors of the given dimension, tagged
// with the embedding-model identifier they were produced by.
func New(dim int, model string) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vectorindex: dimension must be positive, got %d", dim)
	}
	return &Index{dim: dim, model: model}, nil
}

// Dim returns the vector dimension the index was built with.
func (ix *Index) Dim() int { return ix.dim }

// Len returns the number of indexed vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

// Model returns the embedding-model identifier the vectors were built with.
func (ix *Index) Model() string { return ix.model }

// Add appends a vector, assigning it the next slot.
func (ix *Index) Add(vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("%w: got %d, index built with %d",
			domain.ErrDimensionMismatch, len(vec), ix.dim)
	}
	ix.vectors = append(ix.vectors, vec)
	return nil
}

// Search returns the min(k, Len()) nearest slots ordered by ascending
// distance. Ties are broken by lower slot so identical inputs always yield
// identical output. An empty index or k <= 0 yields an empty result, never
// an error. A query of the wrong dimension is a configuration error.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index built with %d",
			domain.ErrDimensionMismatch, len(query), ix.dim)
	}
	n := len(ix.vectors)
	if k <= 0 || n == 0 {
		return []Hit{}, nil
	}
	hits := make([]Hit, n)
	for i, vec := range ix.vectors {
		hits[i] = Hit{Slot: i, Distance: sqDist(query, vec)}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Slot < hits[b].Slot
	})
	if k > n {
		k = n
	}
	return hits[:k], nil
}

func sqDist(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
