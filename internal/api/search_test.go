package api

import (
	"net/http"
	"testing"

	"asha-backend/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchJobs(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)
	env.seedJob(t, "Software Engineer", "backend software development")
	env.seedJob(t, "Data Analyst", "analytics and reporting")
	env.seedJob(t, "Gardener", "trimming hedges")

	var resp api.SearchResponse
	code := env.request(t, http.MethodGet, "/search/jobs?query=software+engineer", nil, &resp, nil)
	require.Equal(t, http.StatusOK, code)

	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Software Engineer", resp.Results[0].Title)
	assert.Equal(t, "local", resp.Results[0].Source)
	for _, result := range resp.Results {
		assert.NotEqual(t, "Gardener", result.Title)
	}
}

func TestSearchJobsEmptyQuery(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	code := env.request(t, http.MethodGet, "/search/jobs?query=", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSearchJobsMissingQuery(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	code := env.request(t, http.MethodGet, "/search/jobs", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSearchJobsLimit(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)
	titles := []string{"Software Engineer", "Senior Software Engineer", "Software Developer", "Software Architect", "Software Tester"}
	for _, title := range titles {
		env.seedJob(t, title, "software development")
	}

	var resp api.SearchResponse
	code := env.request(t, http.MethodGet, "/search/jobs?query=software&limit=2", nil, &resp, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Results, 2)
}

func TestSearchEventsNoLiveSource(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	var resp api.SearchResponse
	code := env.request(t, http.MethodGet, "/search/events?query=workshop&city=Mumbai", nil, &resp, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Results)
}

func TestSearchEventsEmptyQuery(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "x"}, nil)

	code := env.request(t, http.MethodGet, "/search/events?query=+", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
