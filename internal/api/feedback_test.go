package api

import (
	"fmt"
	"net/http"
	"testing"

	"asha-backend/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedbackAndStats(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)
	sessionID := env.startSession(t)

	ratings := []string{"positive", "positive", "negative"}
	for i, rating := range ratings {
		code := env.request(t, http.MethodPost, "/feedback", api.FeedbackRequest{
			SessionID: sessionID,
			Rating:    rating,
			Comments:  fmt.Sprintf("comment %d", i),
		}, nil, nil)
		require.Equal(t, http.StatusOK, code)
	}

	var stats api.FeedbackStatsResponse
	code := env.request(t, http.MethodGet, "/feedback/stats", nil, &stats, nil)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.PositiveRatings)
	assert.InDelta(t, 66.7, stats.PositivePercentage, 0.1)
	assert.Len(t, stats.Recent, 3)
}

func TestSubmitFeedbackNormalizesRating(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	code := env.request(t, http.MethodPost, "/feedback", api.FeedbackRequest{Rating: " Positive "}, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var stats api.FeedbackStatsResponse
	code = env.request(t, http.MethodGet, "/feedback/stats", nil, &stats, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), stats.PositiveRatings)
}

func TestSubmitFeedbackInvalidRating(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	code := env.request(t, http.MethodPost, "/feedback", api.FeedbackRequest{Rating: "meh"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFeedbackInsights(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, &stubGenerator{summary: "Users want more event listings."})
	token := env.loginToken(t)

	code := env.request(t, http.MethodPost, "/feedback", api.FeedbackRequest{Rating: "positive", Comments: "more events please"}, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var insights api.FeedbackInsightsResponse
	code = env.request(t, http.MethodGet, "/feedback/insights", nil, &insights,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "Users want more event listings.", insights.Summary)
	assert.False(t, insights.Degraded)
}

func TestFeedbackInsightsRequiresAuth(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, &stubGenerator{summary: "irrelevant"})

	code := env.request(t, http.MethodGet, "/feedback/insights", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFeedbackInsightsDegradesOnGeneratorFailure(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, &stubGenerator{err: fmt.Errorf("model down")})
	token := env.loginToken(t)

	code := env.request(t, http.MethodPost, "/feedback", api.FeedbackRequest{Rating: "negative", Comments: "slow"}, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var insights api.FeedbackInsightsResponse
	code = env.request(t, http.MethodGet, "/feedback/insights", nil, &insights,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, code)

	assert.True(t, insights.Degraded)
	assert.Contains(t, insights.Summary, "No generated summary available")
}

func TestFeedbackInsightsWithoutGenerator(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)
	token := env.loginToken(t)

	var insights api.FeedbackInsightsResponse
	code := env.request(t, http.MethodGet, "/feedback/insights", nil, &insights,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, code)

	assert.True(t, insights.Degraded)
	assert.Contains(t, insights.Summary, "0 feedback entries")
}
