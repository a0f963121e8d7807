package shows

import "time"

type CreateMovieRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Description     string `json:"description" binding:"max=2000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=600"`
	Rating          string `json:"rating" binding:"omitempty,max=10"`
	PosterURL       string `json:"poster_url" binding:"omitempty,url"`
}

type CreateShowRequest struct {
	MovieID      string    `json:"movie_id" binding:"required,uuid"`
	AuditoriumID string    `json:"auditorium_id" binding:"required,uuid"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`

	// Prices per seat type in minor currency units. Every seat type present
	// in the auditorium must be covered before the show takes reservations.
	Prices []ShowPriceRequest `json:"prices" binding:"required,min=1,dive"`
}

type ShowPriceRequest struct {
	SeatType   string `json:"seat_type" binding:"required,oneof=STANDARD PREMIUM WHEELCHAIR"`
	PriceCents int64  `json:"price_cents" binding:"required,min=0"`
}

type UpdateShowPricesRequest struct {
	Prices []ShowPriceRequest `json:"prices" binding:"required,min=1,dive"`
}

type MovieListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ShowListQuery struct {
	Date    string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	MovieID string `form:"movie_id" binding:"omitempty,uuid"`
}
