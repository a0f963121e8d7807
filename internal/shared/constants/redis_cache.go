package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Cinebook application
// Pattern: cinebook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // auditorium layouts
	TTL_STATIC_MEDIUM = 12 * time.Hour // seat inventory
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // movie details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // movie listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // upcoming shows
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // user reservation lists
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // show details with pricing
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 30 * time.Second // seat maps with occupancy
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== MOVIES & SHOWS ==================

const (
	CACHE_KEY_MOVIES_LIST   = CACHE_PREFIX + ":movies:list"        // + :page:X:limit:Y
	CACHE_KEY_MOVIE_DETAIL  = CACHE_PREFIX + ":movies:detail:uuid:" // + movie-id
	CACHE_KEY_SHOWS_BY_DATE = CACHE_PREFIX + ":shows:by_date:"      // + YYYY-MM-DD
	CACHE_KEY_SHOW_DETAIL   = CACHE_PREFIX + ":shows:detail:uuid:"  // + show-id
)

const (
	TTL_MOVIES_LIST  = TTL_SEMI_STATIC_SHORT
	TTL_MOVIE_DETAIL = TTL_SEMI_STATIC_MEDIUM
	TTL_SHOWS_LIST   = TTL_SEMI_STATIC_QUICK
	TTL_SHOW_DETAIL  = TTL_DYNAMIC_SHORT
)

// ================== VENUES ==================

const (
	CACHE_KEY_AUDITORIUM_LAYOUT = CACHE_PREFIX + ":venues:layout:uuid:" // + auditorium-id
	CACHE_KEY_AUDITORIUMS_LIST  = CACHE_PREFIX + ":venues:list"
)

const (
	TTL_AUDITORIUM_LAYOUT = TTL_STATIC_MEDIUM
	TTL_AUDITORIUMS_LIST  = TTL_STATIC_LONG
)

// ================== SEAT MAPS ==================

// Seat maps carry live occupancy, so they get the shortest TTL and are
// invalidated on every reservation write for the show.
const (
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":seatmap:show:" // + show-id
)

const (
	TTL_SEAT_MAP = TTL_REALTIME_SHORT
)

// ================== RESERVATIONS ==================

const (
	CACHE_KEY_USER_RESERVATIONS  = CACHE_PREFIX + ":reservations:user:uuid:"   // + user-id:page:X
	CACHE_KEY_RESERVATION_DETAIL = CACHE_PREFIX + ":reservations:detail:uuid:" // + reservation-id
)

const (
	TTL_USER_RESERVATIONS  = TTL_DYNAMIC_MEDIUM
	TTL_RESERVATION_DETAIL = TTL_DYNAMIC_MEDIUM
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_MOVIES_ALL = CACHE_PREFIX + ":movies:*"
	PATTERN_INVALIDATE_SHOWS_ALL  = CACHE_PREFIX + ":shows:*"
	PATTERN_INVALIDATE_VENUES_ALL = CACHE_PREFIX + ":venues:*"
	PATTERN_INVALIDATE_USER_ALL   = CACHE_PREFIX + ":*:user:*" // + user-id + *
)

// ================== HELPER FUNCTIONS ==================

func BuildMoviesListKey(page, limit int) string {
	return CACHE_KEY_MOVIES_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit)
}

func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

func BuildShowsByDateKey(date string) string {
	return CACHE_KEY_SHOWS_BY_DATE + date
}

func BuildShowDetailKey(showID string) string {
	return CACHE_KEY_SHOW_DETAIL + showID
}

func BuildSeatMapKey(showID string) string {
	return CACHE_KEY_SEAT_MAP + showID
}

func BuildAuditoriumLayoutKey(auditoriumID string) string {
	return CACHE_KEY_AUDITORIUM_LAYOUT + auditoriumID
}

func BuildUserReservationsKey(userID string, page int) string {
	return CACHE_KEY_USER_RESERVATIONS + userID + ":page:" + fmt.Sprintf("%d", page)
}
