package booking

import (
	"errors"
	"strings"

	domainbooking "roomdesk/internal/domain/booking"
)

var (
	ErrRoomUnavailable    = errors.New("booking: room is not available")
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
)

// ValidationError carries a failed outcome from the calculator to callers.
type ValidationError struct {
	Outcome domainbooking.Outcome
}

func (e *ValidationError) Error() string {
	if e.Outcome.Message != "" {
		return e.Outcome.Message
	}
	return e.Outcome.Err().Error()
}

func (e *ValidationError) Unwrap() error { return e.Outcome.Err() }

// ContactError lists blank required contact fields.
type ContactError struct {
	Fields []string
}

func (e *ContactError) Error() string {
	return "booking: missing contact fields: " + strings.Join(e.Fields, ", ")
}

// ReasonMissingContact is reported when required contact fields are blank.
const ReasonMissingContact = "missing_contact"

func (e *ValidationError) FailureReason() string { return string(e.Outcome.Reason) }

func (e *ContactError) FailureReason() string { return ReasonMissingContact }
