package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asha-backend/internal/analytics"
	"asha-backend/internal/database"
	"asha-backend/pkg/api"
)

const recentFeedbackLimit = 5

const insightsSystemPrompt = "You summarize user feedback for a career-assistant product. " +
	"Highlight recurring themes and concrete improvement suggestions in at most 100 words."

// InsightsGenerator produces the one-shot feedback summary. Satisfied by
// llm.Generator in production.
type InsightsGenerator interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

type FeedbackService struct {
	db        *gorm.DB
	generator InsightsGenerator
	recorder  *analytics.Recorder

	// authMiddleware guards the insights endpoint; nil leaves it open
	// (used in tests).
	authMiddleware func(http.Handler) http.Handler
}

func NewFeedbackService(db *gorm.DB, generator InsightsGenerator, recorder *analytics.Recorder, authMiddleware func(http.Handler) http.Handler) *FeedbackService {
	return &FeedbackService{
		db:             db,
		generator:      generator,
		recorder:       recorder,
		authMiddleware: authMiddleware,
	}
}

func (s *FeedbackService) AddRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.Post("/", RestHandler(s.SubmitFeedback))
		r.Get("/stats", RestHandler(s.GetStats))
		r.Group(func(r chi.Router) {
			if s.authMiddleware != nil {
				r.Use(s.authMiddleware)
			}
			r.Get("/insights", RestHandler(s.GetInsights))
		})
	})
}

func (s *FeedbackService) SubmitFeedback(r *http.Request) (any, error) {
	req, err := ParseRequest[api.FeedbackRequest](r)
	if err != nil {
		return nil, err
	}

	rating := strings.ToLower(strings.TrimSpace(req.Rating))
	if rating != "positive" && rating != "negative" {
		return nil, CodedErrorf(http.StatusBadRequest, "rating must be 'positive' or 'negative'")
	}

	feedback := database.Feedback{
		SessionID: req.SessionID,
		Rating:    rating,
		Comments:  req.Comments,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, err
	}

	sessionID := uuid.Nil
	if parsed, err := uuid.Parse(req.SessionID); err == nil {
		sessionID = parsed
	}
	s.recorder.Record(r.Context(), analytics.EventFeedback, sessionID, map[string]any{
		"rating": rating,
	})

	return nil, nil
}

func (s *FeedbackService) GetStats(r *http.Request) (any, error) {
	stats, err := s.loadStats(r.Context())
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *FeedbackService) GetInsights(r *http.Request) (any, error) {
	stats, err := s.loadStats(r.Context())
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("%d feedback entries, %.0f%% positive. No generated summary available.",
		stats.Total, stats.PositivePercentage)

	if s.generator == nil || len(stats.Recent) == 0 {
		return api.FeedbackInsightsResponse{Summary: fallback, Degraded: s.generator == nil}, nil
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Total feedback: %d (%.0f%% positive). Recent comments:\n", stats.Total, stats.PositivePercentage)
	for _, entry := range stats.Recent {
		comment := entry.Comments
		if comment == "" {
			comment = "(no comment)"
		}
		fmt.Fprintf(&prompt, "- [%s] %s\n", entry.Rating, comment)
	}

	summary, err := s.generator.Generate(r.Context(), insightsSystemPrompt, prompt.String())
	if err != nil {
		return api.FeedbackInsightsResponse{Summary: fallback, Degraded: true}, nil
	}

	return api.FeedbackInsightsResponse{Summary: summary}, nil
}

func (s *FeedbackService) loadStats(ctx context.Context) (api.FeedbackStatsResponse, error) {
	var total, positive int64
	if err := s.db.WithContext(ctx).Model(&database.Feedback{}).Count(&total).Error; err != nil {
		return api.FeedbackStatsResponse{}, err
	}
	if err := s.db.WithContext(ctx).Model(&database.Feedback{}).Where("rating = ?", "positive").Count(&positive).Error; err != nil {
		return api.FeedbackStatsResponse{}, err
	}

	var recent []database.Feedback
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Limit(recentFeedbackLimit).Find(&recent).Error; err != nil {
		return api.FeedbackStatsResponse{}, err
	}

	stats := api.FeedbackStatsResponse{
		Total:           total,
		PositiveRatings: positive,
		Recent:          make([]api.FeedbackEntry, 0, len(recent)),
	}
	if total > 0 {
		stats.PositivePercentage = float64(positive) / float64(total) * 100
	}
	for _, entry := range recent {
		stats.Recent = append(stats.Recent, api.FeedbackEntry{
			SessionID: entry.SessionID,
			Rating:    entry.Rating,
			Comments:  entry.Comments,
			Timestamp: entry.Timestamp.Format(timestampFormat),
		})
	}
	return stats, nil
}
