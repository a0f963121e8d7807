package venues

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Seat labels follow the row-letter plus seat-number convention, e.g. "A1",
// "AB12". Uppercase letters only, number without leading zero.
var seatLabelPattern = regexp.MustCompile(`^[A-Z]{1,3}[1-9][0-9]{0,2}$`)

// RegisterValidators installs custom binding validations used by the
// auditorium request DTOs. Call once during startup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seatlabel", validateSeatLabel)
	}
}

func validateSeatLabel(fl validator.FieldLevel) bool {
	return seatLabelPattern.MatchString(fl.Field().String())
}
