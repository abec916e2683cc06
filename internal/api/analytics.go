package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"asha-backend/internal/database"
	"asha-backend/pkg/api"
)

type AnalyticsService struct {
	db *gorm.DB

	authMiddleware func(http.Handler) http.Handler
}

func NewAnalyticsService(db *gorm.DB, authMiddleware func(http.Handler) http.Handler) *AnalyticsService {
	return &AnalyticsService{db: db, authMiddleware: authMiddleware}
}

func (s *AnalyticsService) AddRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		if s.authMiddleware != nil {
			r.Use(s.authMiddleware)
		}
		r.Get("/events", RestHandler(s.GetEvents))
	})
}

func (s *AnalyticsService) GetEvents(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.AnalyticsEventsRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	query := s.db.Order("timestamp DESC").Limit(req.Limit)
	if req.Type != "" {
		query = query.Where("event_type = ?", req.Type)
	}

	var events []database.AnalyticsEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	items := make([]api.AnalyticsEventItem, 0, len(events))
	for _, event := range events {
		items = append(items, api.AnalyticsEventItem{
			EventType: event.EventType,
			SessionID: event.SessionID,
			Details:   event.Details,
			Timestamp: event.Timestamp.Format(timestampFormat),
		})
	}
	return items, nil
}
