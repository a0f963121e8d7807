package shows

import "time"

type MovieResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Rating          string    `json:"rating"`
	PosterURL       string    `json:"poster_url"`
	CreatedAt       time.Time `json:"created_at"`
}

type ShowResponse struct {
	ID             string              `json:"id"`
	MovieID        string              `json:"movie_id"`
	MovieTitle     string              `json:"movie_title"`
	AuditoriumID   string              `json:"auditorium_id"`
	AuditoriumName string              `json:"auditorium_name"`
	StartsAt       time.Time           `json:"starts_at"`
	EndsAt         time.Time           `json:"ends_at"`
	Status         string              `json:"status"`
	Prices         []ShowPriceResponse `json:"prices"`
}

type ShowPriceResponse struct {
	SeatType   string `json:"seat_type"`
	PriceCents int64  `json:"price_cents"`
}

type PaginatedMovies struct {
	Movies     []MovieResponse `json:"movies"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

// SeatMapResponse is the browse view of a show's seats with live occupancy
type SeatMapResponse struct {
	ShowID         string           `json:"show_id"`
	AuditoriumID   string           `json:"auditorium_id"`
	AuditoriumName string           `json:"auditorium_name"`
	Seats          []SeatMapSeat    `json:"seats"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type SeatMapSeat struct {
	SeatID     string `json:"seat_id"`
	Label      string `json:"label"`
	Row        string `json:"row"`
	Position   int    `json:"position"`
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Occupied   bool   `json:"occupied"`
}
