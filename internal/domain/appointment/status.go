package appointment

import "github.com/BruksfildServices01/barberia-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// BlockingStatuses hold a barber's time. CANCELLED never does.
var BlockingStatuses = []string{string(StatusReserved), string(StatusConfirmed)}

func IsBlocking(s Status) bool {
	return s == StatusReserved || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanConfirm rejects leaving the terminal state.
func CanConfirm(current Status) error {
	if current == StatusCancelled {
		return httperr.InvalidArgumentf("invalid_state", "La cita está cancelada y no puede confirmarse")
	}
	return nil
}

func InitialStatus() Status {
	return StatusReserved
}
