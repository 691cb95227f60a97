package booking

import "errors"

// Reason is a stable code explaining why a validation failed.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonInvalidDateRange     Reason = "invalid_date_range"
	ReasonGuestCountOutOfRange Reason = "guest_count_out_of_range"
	ReasonCheckInInPast        Reason = "check_in_in_past"
)

var (
	ErrInvalidDateRange     = errors.New("booking: check-out must be after check-in")
	ErrGuestCountOutOfRange = errors.New("booking: guest count out of range")
	ErrCheckInInPast        = errors.New("booking: check-in date is in the past")
)

// Outcome is the result of a validation: success, or failure with a reason.
type Outcome struct {
	Reason  Reason
	Message string
}

func succeeded() Outcome { return Outcome{} }

func failed(reason Reason, message string) Outcome {
	return Outcome{Reason: reason, Message: message}
}

func (o Outcome) OK() bool { return o.Reason == ReasonNone }

// Err converts a failed outcome into its sentinel error, nil on success.
func (o Outcome) Err() error {
	switch o.Reason {
	case ReasonNone:
		return nil
	case ReasonInvalidDateRange:
		return ErrInvalidDateRange
	case ReasonGuestCountOutOfRange:
		return ErrGuestCountOutOfRange
	case ReasonCheckInInPast:
		return ErrCheckInInPast
	default:
		return errors.New("booking: " + string(o.Reason))
	}
}
