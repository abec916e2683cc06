package retrieval

import (
	"context"
	"strings"

	"asha-backend/internal/database"
	"asha-backend/pkg/api"

	"gorm.io/gorm"
)

// stopwords are skipped when scoring keyword overlap.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "for": {}, "in": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "with": {}, "me": {}, "near": {},
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, skip := stopwords[f]; !skip {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// score is the fraction of query tokens present in the document tokens.
func score(queryTokens []string, docText string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	doc := make(map[string]struct{})
	for _, t := range tokenize(docText) {
		doc[t] = struct{}{}
	}
	matched := 0
	for _, t := range queryTokens {
		if _, ok := doc[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

// LocalStore retrieves curated job listings and mentorship sessions from the
// database by keyword-overlap scoring.
type LocalStore struct {
	db *gorm.DB
}

func NewLocalStore(db *gorm.DB) *LocalStore {
	return &LocalStore{db: db}
}

func (s *LocalStore) SearchJobs(ctx context.Context, query string, k int) ([]api.Result, error) {
	var listings []database.JobListing
	if err := s.db.WithContext(ctx).Find(&listings).Error; err != nil {
		return nil, err
	}

	queryTokens := tokenize(query)
	var results []api.Result
	for _, job := range listings {
		doc := strings.Join([]string{job.Title, job.Description, job.Location, job.Skills}, " ")
		sc := score(queryTokens, doc)
		if sc == 0 {
			continue
		}
		results = append(results, api.Result{
			Source:      SourceLocal,
			Title:       job.Title,
			Company:     job.Company,
			Description: job.Description,
			Location:    job.Location,
			URL:         job.URL,
			Score:       sc,
		})
	}
	return topK(results, k), nil
}

func (s *LocalStore) SearchSessions(ctx context.Context, query string, k int) ([]api.Result, error) {
	var sessions []database.MentorSession
	if err := s.db.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, err
	}

	queryTokens := tokenize(query)
	var results []api.Result
	for _, session := range sessions {
		sc := score(queryTokens, session.Title+" "+session.Description)
		if sc == 0 {
			continue
		}
		results = append(results, api.Result{
			Source:      SourceLocal,
			Title:       session.Title,
			Description: session.Description,
			Date:        session.Date,
			URL:         session.Link,
			Score:       sc,
		})
	}
	return topK(results, k), nil
}
