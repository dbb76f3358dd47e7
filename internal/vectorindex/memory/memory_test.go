package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, ids []string, vectors [][]float32) *Index {
	t.Helper()
	x := New()
	require.NoError(t, x.Build(context.Background(), ids, vectors))
	return x
}

func TestQueryOrdering(t *testing.T) {
	x := buildIndex(t,
		[]string{"a", "b", "c"},
		[][]float32{
			{1, 0},
			{0, 1},
			{0.7, 0.7},
		},
	)

	matches, err := x.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.Equal(t, "b", matches[2].ID)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}
}

func TestQueryTieBreaksByInsertionOrder(t *testing.T) {
	// Three identical vectors plus one orthogonal: equal scores must come
	// back in corpus insertion order.
	x := buildIndex(t,
		[]string{"first", "second", "off", "third"},
		[][]float32{
			{1, 0},
			{1, 0},
			{0, 1},
			{1, 0},
		},
	)

	matches, err := x.Query(context.Background(), []float32{1, 0}, 4)
	require.NoError(t, err)
	require.Len(t, matches, 4)
	assert.Equal(t, []string{"first", "second", "third", "off"},
		[]string{matches[0].ID, matches[1].ID, matches[2].ID, matches[3].ID})
}

func TestQueryKLargerThanIndex(t *testing.T) {
	x := buildIndex(t, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})

	matches, err := x.Query(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryEmptyIndex(t *testing.T) {
	x := New()
	matches, err := x.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 0, x.Size())
}

func TestQueryNonPositiveK(t *testing.T) {
	x := buildIndex(t, []string{"a"}, [][]float32{{1, 0}})
	matches, err := x.Query(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestBuildValidation(t *testing.T) {
	x := New()
	err := x.Build(context.Background(), []string{"a"}, [][]float32{{1, 0}, {0, 1}})
	assert.Error(t, err)

	err = x.Build(context.Background(), []string{"a", "b"}, [][]float32{{1, 0}, {0, 1, 2}})
	assert.Error(t, err)
	assert.Equal(t, 0, x.Size())
}

func TestQueryDimensionMismatch(t *testing.T) {
	x := buildIndex(t, []string{"a"}, [][]float32{{1, 0}})
	_, err := x.Query(context.Background(), []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestSizeMatchesCorpus(t *testing.T) {
	x := buildIndex(t, []string{"a", "b", "c"}, [][]float32{{1, 0}, {0, 1}, {1, 1}})
	assert.Equal(t, 3, x.Size())
}

func TestScoresAreCosine(t *testing.T) {
	// Unnormalized input vectors must still score by angle, not magnitude.
	x := buildIndex(t, []string{"long", "short"}, [][]float32{{100, 0}, {0, 1}})

	matches, err := x.Query(context.Background(), []float32{0, 5}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "short", matches[0].ID)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-5)
	assert.InDelta(t, 0.0, float64(matches[1].Score), 1e-5)
}
