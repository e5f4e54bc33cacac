package dto

import (
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
)

// SlotDTO keeps the field names internal clients already consume.
type SlotDTO struct {
	Start      time.Time `json:"fechaInicio"`
	End        time.Time `json:"fechaFin"`
	BarberID   uint      `json:"barberoId"`
	BarberName string    `json:"barberoNombre"`
	Available  bool      `json:"disponible"`
}

func Slots(in []schedule.Slot) []SlotDTO {
	out := make([]SlotDTO, 0, len(in))
	for _, s := range in {
		out = append(out, SlotDTO{
			Start:      s.Start,
			End:        s.End,
			BarberID:   s.BarberID,
			BarberName: s.BarberName,
			Available:  s.Available,
		})
	}
	return out
}
