package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm moves a RESERVED appointment to CONFIRMED. Confirming twice is a
// no-op; changed reports whether anything must be persisted.
func Confirm(ap *models.Appointment, now time.Time) (changed bool, err error) {
	current := Status(ap.Status)
	if err := CanConfirm(current); err != nil {
		return false, err
	}
	if current == StatusConfirmed {
		return false, nil
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return true, nil
}

// Cancel is idempotent. On an already cancelled appointment a non-empty
// reason replaces the stored one and the original timestamp is kept.
func Cancel(ap *models.Appointment, now time.Time, reason string) (changed bool) {
	reason = strings.TrimSpace(reason)

	if Status(ap.Status) == StatusCancelled {
		if reason == "" || reason == ap.CancelReason {
			return false
		}
		ap.CancelReason = reason
		return true
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	if reason != "" {
		ap.CancelReason = reason
	}
	return true
}
