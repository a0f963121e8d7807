package venues

import "time"

type SeatResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Row      string `json:"row"`
	Position int    `json:"position"`
	Type     string `json:"type"`
}

type AuditoriumResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditoriumLayoutResponse carries the full seat grid grouped by row
type AuditoriumLayoutResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	SeatCount int                     `json:"seat_count"`
	Rows      []AuditoriumRowResponse `json:"rows"`
}

type AuditoriumRowResponse struct {
	Row   string         `json:"row"`
	Seats []SeatResponse `json:"seats"`
}

type PaginatedAuditoriums struct {
	Auditoriums []AuditoriumResponse `json:"auditoriums"`
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}
