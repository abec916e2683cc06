package retrieval

import (
	"testing"

	"asha-backend/pkg/api"

	"github.com/stretchr/testify/assert"
)

func TestMergeDedupesByTitle(t *testing.T) {
	results := []api.Result{
		{Title: "Data Analyst", Score: 0.5},
		{Title: "data analyst", Score: 0.9},
		{Title: "Backend Engineer", Score: 0.7},
	}

	merged := Merge(results, 10)

	assert.Len(t, merged, 2)
	assert.Equal(t, "data analyst", merged[0].Title, "kept the higher-scoring duplicate")
	assert.Equal(t, 0.9, merged[0].Score)
	assert.Equal(t, "Backend Engineer", merged[1].Title)
}

func TestMergeCaps(t *testing.T) {
	results := []api.Result{
		{Title: "a", Score: 0.1},
		{Title: "b", Score: 0.9},
		{Title: "c", Score: 0.5},
	}

	merged := Merge(results, 2)

	assert.Len(t, merged, 2)
	assert.Equal(t, "b", merged[0].Title)
	assert.Equal(t, "c", merged[1].Title)
}

func TestMergeSkipsEmptyTitles(t *testing.T) {
	merged := Merge([]api.Result{{Title: "  ", Score: 1}, {Title: "x", Score: 0.2}}, 5)

	assert.Len(t, merged, 1)
	assert.Equal(t, "x", merged[0].Title)
}

func TestTopKStableForTies(t *testing.T) {
	results := []api.Result{
		{Title: "first", Score: 0.5},
		{Title: "second", Score: 0.5},
	}

	ranked := topK(results, 2)

	assert.Equal(t, "first", ranked[0].Title)
	assert.Equal(t, "second", ranked[1].Title)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))

	long := "This is a rather long description that should be cut at a word boundary instead of mid-word to stay readable"
	truncated := Truncate(long, 50)
	assert.LessOrEqual(t, len(truncated), 50)
	assert.True(t, len(truncated) > 3)
	assert.Equal(t, "...", truncated[len(truncated)-3:])
	assert.NotContains(t, truncated, "  ")
}
