package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"asha-backend/internal/analytics"
	"asha-backend/internal/retrieval"
	"asha-backend/pkg/api"
)

// SearchService exposes the retrieval pipeline directly, without the chat
// layer on top.
type SearchService struct {
	retriever *retrieval.Retriever
	recorder  *analytics.Recorder
}

func NewSearchService(retriever *retrieval.Retriever, recorder *analytics.Recorder) *SearchService {
	return &SearchService{retriever: retriever, recorder: recorder}
}

func (s *SearchService) AddRoutes(r chi.Router) {
	r.Route("/search", func(r chi.Router) {
		r.Get("/jobs", RestHandler(s.SearchJobs))
		r.Get("/events", RestHandler(s.SearchEvents))
	})
}

func (s *SearchService) SearchJobs(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.SearchJobsRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "query cannot be empty")
	}

	results, err := s.retriever.SearchJobs(r.Context(), req.Query, req.Location, req.Limit)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(r.Context(), analytics.EventSearch, uuid.Nil, map[string]any{
		"kind":    "jobs",
		"query":   req.Query,
		"results": len(results),
	})

	return api.SearchResponse{Results: results}, nil
}

func (s *SearchService) SearchEvents(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.SearchEventsRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "query cannot be empty")
	}

	results, err := s.retriever.SearchEvents(r.Context(), req.Query, req.City, req.Limit)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(r.Context(), analytics.EventSearch, uuid.Nil, map[string]any{
		"kind":    "events",
		"query":   req.Query,
		"results": len(results),
	})

	return api.SearchResponse{Results: results}, nil
}
