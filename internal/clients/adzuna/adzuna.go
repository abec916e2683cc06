package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"asha-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.adzuna.com"

// Client queries the Adzuna job-search API.
type Client struct {
	client  *resty.Client
	appID   string
	appKey  string
	country string
}

func NewClient(appID, appKey, country string) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, appID, appKey, country)
}

func NewClientWithBaseURL(baseURL, appID, appKey, country string) *Client {
	if country == "" {
		country = "gb"
	}
	return &Client{
		client:  resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		appID:   appID,
		appKey:  appKey,
		country: country,
	}
}

// Configured reports whether credentials are present. Used by the health
// endpoint and to skip live lookups entirely when unset.
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		RedirectURL string `json:"redirect_url"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
	} `json:"results"`
}

// SearchJobs fetches live listings for the query and maps them to the common
// result shape. Missing fields get the same fallbacks the rest of the
// pipeline expects ("Unknown Company", "Remote").
func (c *Client) SearchJobs(ctx context.Context, query, location string, limit int) ([]api.Result, error) {
	if limit <= 0 {
		limit = 5
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id":           c.appID,
			"app_key":          c.appKey,
			"what":             query,
			"results_per_page": strconv.Itoa(limit),
		})
	if location != "" {
		req.SetQueryParam("where", location)
	}

	res, err := req.Get(fmt.Sprintf("/v1/api/jobs/%s/search/1", c.country))
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("adzuna returned status %d: %s", res.StatusCode(), res.String())
	}

	var parsed searchResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("error parsing adzuna response: %w", err)
	}

	results := make([]api.Result, 0, len(parsed.Results))
	for _, job := range parsed.Results {
		title := job.Title
		if title == "" {
			title = "No title"
		}
		company := job.Company.DisplayName
		if company == "" {
			company = "Unknown Company"
		}
		loc := job.Location.DisplayName
		if loc == "" {
			loc = "Remote"
		}
		results = append(results, api.Result{
			Source:      "adzuna",
			Title:       title,
			Company:     company,
			Description: job.Description,
			Location:    loc,
			URL:         job.RedirectURL,
			Score:       1,
		})
	}
	return results, nil
}
