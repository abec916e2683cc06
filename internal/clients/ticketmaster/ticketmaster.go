package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"asha-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://app.ticketmaster.com"

// Client queries the Ticketmaster Discovery v2 API.
type Client struct {
	client *resty.Client
	apiKey string
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, apiKey)
}

func NewClientWithBaseURL(baseURL, apiKey string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		apiKey: apiKey,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type eventsResponse struct {
	Embedded struct {
		Events []struct {
			Name       string `json:"name"`
			Info       string `json:"info"`
			PleaseNote string `json:"pleaseNote"`
			URL        string `json:"url"`
			Dates      struct {
				Start struct {
					LocalDate string `json:"localDate"`
					LocalTime string `json:"localTime"`
				} `json:"start"`
			} `json:"dates"`
			Embedded struct {
				Venues []struct {
					Name string `json:"name"`
				} `json:"venues"`
			} `json:"_embedded"`
		} `json:"events"`
	} `json:"_embedded"`
}

// SearchEvents fetches upcoming events for the keyword, soonest first.
// Description prefers the event info text, falling back to pleaseNote.
func (c *Client) SearchEvents(ctx context.Context, query, city string, limit int) ([]api.Result, error) {
	if limit <= 0 {
		limit = 3
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":  c.apiKey,
			"keyword": query,
			"size":    strconv.Itoa(limit),
			"sort":    "date,asc",
		})
	if city != "" {
		req.SetQueryParam("city", city)
	}

	res, err := req.Get("/discovery/v2/events.json")
	if err != nil {
		return nil, fmt.Errorf("ticketmaster request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("ticketmaster returned status %d: %s", res.StatusCode(), res.String())
	}

	var parsed eventsResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("error parsing ticketmaster response: %w", err)
	}

	results := make([]api.Result, 0, len(parsed.Embedded.Events))
	for _, event := range parsed.Embedded.Events {
		name := event.Name
		if name == "" {
			name = "Untitled Event"
		}
		description := event.Info
		if description == "" {
			description = event.PleaseNote
		}
		venue := "Venue not specified"
		if len(event.Embedded.Venues) > 0 && event.Embedded.Venues[0].Name != "" {
			venue = event.Embedded.Venues[0].Name
		}
		date := strings.TrimSpace(event.Dates.Start.LocalDate + " " + event.Dates.Start.LocalTime)
		if date == "" {
			date = "Date not available"
		}
		results = append(results, api.Result{
			Source:      "ticketmaster",
			Title:       name,
			Description: description,
			Venue:       venue,
			Date:        date,
			URL:         event.URL,
			Score:       1,
		})
	}
	return results, nil
}
