package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"asha-backend/pkg/api"
)

// Configured is implemented by the live-source clients so the health
// endpoint can report whether credentials are present.
type Configured interface {
	Configured() bool
}

type HealthService struct {
	db           *gorm.DB
	llmAvailable bool
	jobs         Configured
	events       Configured
}

func NewHealthService(db *gorm.DB, llmAvailable bool, jobs, events Configured) *HealthService {
	return &HealthService{db: db, llmAvailable: llmAvailable, jobs: jobs, events: events}
}

func (s *HealthService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(s.GetHealth))
}

func (s *HealthService) GetHealth(r *http.Request) (any, error) {
	components := map[string]string{
		"database":     "ok",
		"llm":          "not_configured",
		"adzuna":       "not_configured",
		"ticketmaster": "not_configured",
	}
	status := "ok"

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		components["database"] = "unavailable"
		status = "degraded"
	}

	if s.llmAvailable {
		components["llm"] = "ok"
	}
	if s.jobs != nil && s.jobs.Configured() {
		components["adzuna"] = "ok"
	}
	if s.events != nil && s.events.Configured() {
		components["ticketmaster"] = "ok"
	}

	return api.HealthResponse{Status: status, Components: components}, nil
}
