package shows

type ShowStatus string

const (
	ShowStatusScheduled ShowStatus = "SCHEDULED"
	ShowStatusCancelled ShowStatus = "CANCELLED"
)

// IsValid checks if the show status is valid
func (s ShowStatus) IsValid() bool {
	switch s {
	case ShowStatusScheduled, ShowStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ShowStatus
func (s ShowStatus) String() string {
	return string(s)
}

// IsBookable checks if reservations may be placed against the show
func (s ShowStatus) IsBookable() bool {
	return s == ShowStatusScheduled
}
