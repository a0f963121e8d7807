package venues

// SeatSpec describes a single seat in an auditorium creation request
type SeatSpec struct {
	Label    string `json:"label" binding:"required,seatlabel"`
	Row      string `json:"row" binding:"required,min=1,max=3"`
	Position int    `json:"position" binding:"required,min=1"`
	Type     string `json:"type" binding:"omitempty,oneof=STANDARD PREMIUM WHEELCHAIR"`
}

type CreateAuditoriumRequest struct {
	Name  string     `json:"name" binding:"required,min=2,max=255"`
	Seats []SeatSpec `json:"seats" binding:"required,min=1,max=1000,dive"`
}

type AuditoriumListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
