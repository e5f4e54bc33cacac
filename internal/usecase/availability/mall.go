package availability

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

const (
	mallDateTimeLayout = "2006-01-02 15:04"
	mallClockLayout    = "15:04"
)

type MallDayInput struct {
	StoreID           uint
	ServiceExternalID string
	Date              string
}

// MallSlot is the partner wire format of a bookable slot.
type MallSlot struct {
	ServiceID       string `json:"servicio_id"`
	Start           string `json:"fecha_inicio"`
	End             string `json:"fecha_fin"`
	DurationMinutes int    `json:"duracion_minutos"`
	AppointmentTime string `json:"appointment_time"`
	AppointmentID   *uint  `json:"id_cita"`
	BarberID        uint   `json:"id_barbero"`
}

// MallDay answers the partner's "what is free on this date" query.
type MallDay struct {
	catalog      catalog.Repository
	appointments domain.Repository
	planner      planner
}

func NewMallDay(cat catalog.Repository, apps domain.Repository) *MallDay {
	return &MallDay{catalog: cat, appointments: apps, planner: newPlanner(cat, apps)}
}

func (uc *MallDay) Execute(ctx context.Context, in MallDayInput) ([]MallSlot, error) {
	code := strings.TrimSpace(in.ServiceExternalID)
	if code == "" {
		return nil, httperr.InvalidArgumentf("missing_service", "service_external_id es requerido")
	}

	// 1. Service by partner code, active and available in the store
	service, err := uc.catalog.FindServiceByExternalCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.Active || (service.BranchID != nil && *service.BranchID != in.StoreID) {
		return nil, httperr.NotFoundf("service_not_found",
			"Servicio con código externo %q no disponible en la sucursal %d", code, in.StoreID)
	}
	if service.DurationMin <= 0 {
		return nil, httperr.InvalidArgumentf("invalid_duration", "El servicio %q no tiene una duración válida", code)
	}

	branch, err := uc.catalog.GetBranch(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(branch.Timezone)

	// 2. Whole requested day
	day, err := schedule.ParseDay(in.Date, loc)
	if err != nil {
		return nil, err
	}

	// 3. Every active barber of the store
	barbers, err := uc.catalog.ListActiveBarbers(ctx, branch.ID)
	if err != nil {
		return nil, err
	}
	if len(barbers) == 0 {
		return nil, errNoBarbers(branch.ID)
	}

	plans, err := uc.planner.plans(ctx, branch.ID, barbers, []time.Time{day})
	if err != nil {
		return nil, err
	}

	sameService, err := uc.sameServiceAppointments(ctx, barbers, day, service.ID)
	if err != nil {
		return nil, err
	}

	// 4. Only free slots, in partner format
	out := []MallSlot{}
	for s := range schedule.Available(schedule.GenerateForBarbers(plans, service.DurationMin)) {
		start := s.Start.In(loc)
		ms := MallSlot{
			ServiceID:       code,
			Start:           start.Format(mallDateTimeLayout),
			End:             s.End.In(loc).Format(mallDateTimeLayout),
			DurationMinutes: service.DurationMin,
			AppointmentTime: start.Format(mallClockLayout),
			BarberID:        s.BarberID,
		}
		for _, ap := range sameService {
			if ap.BarberID == s.BarberID && domain.Overlaps(ap, s.Start, s.End) {
				id := ap.ID
				ms.AppointmentID = &id
				break
			}
		}
		out = append(out, ms)
	}
	return out, nil
}

func (uc *MallDay) sameServiceAppointments(
	ctx context.Context,
	barbers []models.Barber,
	day time.Time,
	serviceID uint,
) ([]models.Appointment, error) {

	ids := make([]uint, 0, len(barbers))
	for _, b := range barbers {
		ids = append(ids, b.ID)
	}
	aps, err := uc.appointments.ListBlocking(ctx, ids, schedule.StartOfDay(day), schedule.EndOfDay(day))
	if err != nil {
		return nil, err
	}

	var out []models.Appointment
	for _, ap := range aps {
		if ap.ServiceID == serviceID {
			out = append(out, ap)
		}
	}
	return out, nil
}
