package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"asha-backend/pkg/api"
)

const (
	MaxLocalJobs     = 3
	MaxLiveJobs      = 3
	MaxLiveEvents    = 2
	MaxLocalSessions = 2

	LiveJobFetchLimit   = 5
	LiveEventFetchLimit = 3

	MaxJobDescriptionLength   = 100
	MaxEventDescriptionLength = 150
)

// JobSource is a live job-search backend (Adzuna in production).
type JobSource interface {
	SearchJobs(ctx context.Context, query, location string, limit int) ([]api.Result, error)
}

// EventSource is a live event-search backend (Ticketmaster in production).
type EventSource interface {
	SearchEvents(ctx context.Context, query, city string, limit int) ([]api.Result, error)
}

// Retriever runs the full expansion/lookup/merge pipeline and assembles the
// grounding context for the language-model call. Live-source failures
// degrade to empty result sets; the retriever itself only errors on local
// database failures.
type Retriever struct {
	expander *Expander
	local    *LocalStore
	jobs     JobSource
	events   EventSource
}

func NewRetriever(expander *Expander, local *LocalStore, jobs JobSource, events EventSource) *Retriever {
	return &Retriever{expander: expander, local: local, jobs: jobs, events: events}
}

func (r *Retriever) Expander() *Expander {
	return r.expander
}

// Results holds merged, capped result lists per section.
type Results struct {
	LocalJobs  []api.Result
	LiveJobs   []api.Result
	LiveEvents []api.Result
	Sessions   []api.Result
}

func (res Results) Empty() bool {
	return len(res.LocalJobs) == 0 && len(res.LiveJobs) == 0 && len(res.LiveEvents) == 0 && len(res.Sessions) == 0
}

// Retrieve expands the query and collects results from every source for
// every variation, then dedups, ranks, and caps each section.
func (r *Retriever) Retrieve(ctx context.Context, query, location string) (Results, error) {
	variations := r.expander.Expand(query)
	slog.Info("expanded query", "query", query, "variations", variations)

	var localJobs, liveJobs, liveEvents, sessions []api.Result

	for _, variation := range variations {
		jobs, err := r.local.SearchJobs(ctx, variation, MaxLocalJobs)
		if err != nil {
			return Results{}, fmt.Errorf("local job search failed: %w", err)
		}
		localJobs = append(localJobs, jobs...)

		mentoring, err := r.local.SearchSessions(ctx, variation, MaxLocalSessions)
		if err != nil {
			return Results{}, fmt.Errorf("local session search failed: %w", err)
		}
		sessions = append(sessions, mentoring...)

		if r.jobs != nil {
			live, err := r.jobs.SearchJobs(ctx, variation, location, LiveJobFetchLimit)
			if err != nil {
				slog.Error("live job lookup failed", "variation", variation, "error", err)
			} else {
				liveJobs = append(liveJobs, live...)
			}
		}

		if r.events != nil {
			events, err := r.events.SearchEvents(ctx, variation, location, LiveEventFetchLimit)
			if err != nil {
				slog.Error("live event lookup failed", "variation", variation, "error", err)
			} else {
				liveEvents = append(liveEvents, events...)
			}
		}
	}

	return Results{
		LocalJobs:  Merge(localJobs, MaxLocalJobs),
		LiveJobs:   Merge(liveJobs, MaxLiveJobs),
		LiveEvents: Merge(liveEvents, MaxLiveEvents),
		Sessions:   Merge(sessions, MaxLocalSessions),
	}, nil
}

// SearchJobs serves the direct job-search endpoint: local and live results
// for every query variation, merged into one ranked list.
func (r *Retriever) SearchJobs(ctx context.Context, query, location string, limit int) ([]api.Result, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	var all []api.Result
	for _, variation := range r.expander.Expand(query) {
		local, err := r.local.SearchJobs(ctx, variation, limit)
		if err != nil {
			return nil, fmt.Errorf("local job search failed: %w", err)
		}
		all = append(all, local...)

		if r.jobs != nil {
			live, err := r.jobs.SearchJobs(ctx, variation, location, LiveJobFetchLimit)
			if err != nil {
				slog.Error("live job lookup failed", "variation", variation, "error", err)
			} else {
				all = append(all, live...)
			}
		}
	}
	return Merge(all, limit), nil
}

// SearchEvents serves the direct event-search endpoint.
func (r *Retriever) SearchEvents(ctx context.Context, query, city string, limit int) ([]api.Result, error) {
	if limit <= 0 || limit > 25 {
		limit = 5
	}

	var all []api.Result
	for _, variation := range r.expander.Expand(query) {
		if r.events == nil {
			break
		}
		events, err := r.events.SearchEvents(ctx, variation, city, LiveEventFetchLimit)
		if err != nil {
			slog.Error("live event lookup failed", "variation", variation, "error", err)
			continue
		}
		all = append(all, events...)
	}
	return Merge(all, limit), nil
}

// Context retrieves and formats the grounding context. Returns "" when
// nothing relevant was found.
func (r *Retriever) Context(ctx context.Context, query, location string) (string, error) {
	results, err := r.Retrieve(ctx, query, location)
	if err != nil {
		return "", err
	}
	return FormatContext(results), nil
}

// FormatContext renders the per-section markdown fed to the LLM prompt.
func FormatContext(results Results) string {
	var sections []string

	if len(results.LocalJobs) > 0 {
		items := make([]string, 0, len(results.LocalJobs))
		for _, job := range results.LocalJobs {
			items = append(items, fmt.Sprintf("- **%s** (%s)\n  %s\n  %s",
				job.Title, job.Location, job.Company, Truncate(job.Description, MaxJobDescriptionLength)))
		}
		sections = append(sections, formatSection("Local Job Opportunities", items))
	}

	if len(results.LiveJobs) > 0 {
		var items []string
		for _, job := range results.LiveJobs {
			if job.URL == "" {
				continue
			}
			items = append(items, fmt.Sprintf("- **%s** at %s (%s)\n  %s\n  [Apply Here](%s)",
				job.Title, job.Company, job.Location, Truncate(job.Description, MaxJobDescriptionLength), job.URL))
		}
		if len(items) > 0 {
			sections = append(sections, formatSection("Live Job Listings", items))
		}
	}

	if len(results.LiveEvents) > 0 {
		var items []string
		for _, event := range results.LiveEvents {
			if event.URL == "" {
				continue
			}
			items = append(items, fmt.Sprintf("- **%s**\n  %s (%s)\n  %s\n  [More Info](%s)",
				event.Title, event.Venue, event.Date, Truncate(event.Description, MaxEventDescriptionLength), event.URL))
		}
		if len(items) > 0 {
			sections = append(sections, formatSection("Upcoming Events", items))
		}
	}

	if len(results.Sessions) > 0 {
		items := make([]string, 0, len(results.Sessions))
		for _, session := range results.Sessions {
			items = append(items, fmt.Sprintf("- **%s**\n  %s\n  %s",
				session.Title, session.Date, Truncate(session.Description, MaxEventDescriptionLength)))
		}
		sections = append(sections, formatSection("Local Sessions", items))
	}

	return strings.Join(sections, "\n\n")
}

func formatSection(title string, items []string) string {
	return "### " + title + "\n" + strings.Join(items, "\n")
}

// Truncate cuts text at a word boundary and appends an ellipsis when it
// exceeds maxLength.
func Truncate(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLength {
		return text
	}
	cut := text[:maxLength-3]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
