package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhaven/internal/domain"
)

func buildIndex(t *testing.T, vecs ...[]float32) *Index {
	t.Helper()
	ix, err := New(len(vecs[0]), "test-model")
	require.NoError(t, err)
	for _, v := range vecs {
		require.NoError(t, ix.Add(v))
	}
	return ix
}

func TestSearchOrdersByAscendingDistance(t *testing.T) {
	ix := buildIndex(t,
		[]float32{10, 0},
		[]float32{1, 0},
		[]float32{5, 0},
	)

	hits, err := ix.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{1, 2, 0}, []int{hits[0].Slot, hits[1].Slot, hits[2].Slot})
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
}

func TestSearchSelfMatchIsFirstWithZeroDistance(t *testing.T) {
	v0 := []float32{0.1, 0.2, 0.3}
	v1 := []float32{0.9, 0.1, 0.4}
	ix := buildIndex(t, v0, v1)

	hits, err := ix.Search(v1, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Slot)
	assert.Equal(t, float32(0), hits[0].Distance)
}

func TestSearchReturnsAtMostK(t *testing.T) {
	ix := buildIndex(t, []float32{1}, []float32{2}, []float32{3})

	hits, err := ix.Search([]float32{0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	// k larger than the corpus is capped, not an error.
	hits, err = ix.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix, err := New(4, "test-model")
	require.NoError(t, err)

	hits, err := ix.Search([]float32{0, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchNonPositiveK(t *testing.T) {
	ix := buildIndex(t, []float32{1, 2})

	hits, err := ix.Search([]float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchDimensionMismatch(t *testing.T) {
	ix := buildIndex(t, []float32{1, 2, 3})

	_, err := ix.Search([]float32{1, 2}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearchTiesBreakByLowerSlot(t *testing.T) {
	same := []float32{1, 1}
	ix := buildIndex(t, same, same, same)

	hits, err := ix.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 0, hits[0].Slot)
	assert.Equal(t, 1, hits[1].Slot)
	assert.Equal(t, 2, hits[2].Slot)

	// Identical inputs yield identical output.
	again, err := ix.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, hits, again)
}

func TestAddDimensionMismatch(t *testing.T) {
	ix, err := New(3, "test-model")
	require.NoError(t, err)
	assert.ErrorIs(t, ix.Add([]float32{1, 2}), domain.ErrDimensionMismatch)
}
