package retrieval

import (
	"sort"
	"strings"

	"asha-backend/pkg/api"
)

const (
	SourceLocal        = "local"
	SourceAdzuna       = "adzuna"
	SourceTicketmaster = "ticketmaster"
)

// topK sorts by score descending (stable, so insertion order breaks ties)
// and truncates to k items.
func topK(results []api.Result, k int) []api.Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// dedupe drops repeated titles (case-insensitive), keeping the
// highest-scoring occurrence. Input order is preserved otherwise.
func dedupe(results []api.Result) []api.Result {
	best := make(map[string]int, len(results))
	var out []api.Result
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if key == "" {
			continue
		}
		if i, seen := best[key]; seen {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		best[key] = len(out)
		out = append(out, r)
	}
	return out
}

// Merge combines results gathered across query variations and sources:
// dedup by title keeping the best score, rank, and cap at k.
func Merge(results []api.Result, k int) []api.Result {
	return topK(dedupe(results), k)
}
