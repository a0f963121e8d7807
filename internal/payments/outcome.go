package payments

// Outcome is the provider-agnostic classification of a settlement fact.
type Outcome string

const (
	OutcomePaid     Outcome = "PAID"
	OutcomeFailed   Outcome = "FAILED"
	OutcomeRefunded Outcome = "REFUNDED"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePaid, OutcomeFailed, OutcomeRefunded:
		return true
	}
	return false
}

func (o Outcome) String() string {
	return string(o)
}
