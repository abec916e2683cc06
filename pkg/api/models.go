package api

// Result is a single retrieved opportunity, normalized across sources.
type Result struct {
	Source      string  `json:"source"` // "local", "adzuna", "ticketmaster"
	Title       string  `json:"title"`
	Company     string  `json:"company,omitempty"`
	Description string  `json:"description"`
	Location    string  `json:"location,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	Date        string  `json:"date,omitempty"`
	URL         string  `json:"url,omitempty"`
	Score       float64 `json:"score"`
}

type SearchJobsRequest struct {
	Query    string `schema:"query,required"`
	Location string `schema:"location"`
	Limit    int    `schema:"limit"`
}

type SearchEventsRequest struct {
	Query string `schema:"query,required"`
	City  string `schema:"city"`
	Limit int    `schema:"limit"`
}

type SearchResponse struct {
	Results []Result `json:"results"`
}

type FeedbackRequest struct {
	SessionID string `json:"session_id"`
	Rating    string `json:"rating"`
	Comments  string `json:"comments,omitempty"`
}

type FeedbackStatsResponse struct {
	Total              int64           `json:"total_feedback"`
	PositiveRatings    int64           `json:"positive_ratings"`
	PositivePercentage float64         `json:"positive_percentage"`
	Recent             []FeedbackEntry `json:"recent_feedback"`
}

type FeedbackEntry struct {
	SessionID string `json:"session_id"`
	Rating    string `json:"rating"`
	Comments  string `json:"comments,omitempty"`
	Timestamp string `json:"timestamp"`
}

type FeedbackInsightsResponse struct {
	Summary  string `json:"summary"`
	Degraded bool   `json:"degraded,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AnalyticsEventsRequest struct {
	Type  string `schema:"type"`
	Limit int    `schema:"limit"`
}

type AnalyticsEventItem struct {
	EventType string `json:"event_type"`
	SessionID string `json:"session_id,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
