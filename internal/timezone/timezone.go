package timezone

import (
	"sync/atomic"
	"time"
)

const DefaultTimezone = "America/Mexico_City"

var business atomic.Pointer[time.Location]

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the business location.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return Business()
}

// SetBusiness fixes the location used to interpret wall-clock schedule
// values. Invalid names leave the current setting untouched.
func SetBusiness(tz string) bool {
	if !IsValid(tz) {
		return false
	}
	loc, _ := time.LoadLocation(tz)
	business.Store(loc)
	return true
}

func Business() *time.Location {
	if loc := business.Load(); loc != nil {
		return loc
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Business())
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
