package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/dto"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

// ListAgenda returns a barber's appointments, cancelled ones included,
// for a day or a month in the barber's branch time zone.
type ListAgenda struct {
	catalog catalog.Repository
	repo    domain.Repository
}

func NewListAgenda(
	cat catalog.Repository,
	repo domain.Repository,
) *ListAgenda {
	return &ListAgenda{
		catalog: cat,
		repo:    repo,
	}
}

func (uc *ListAgenda) ByDate(
	ctx context.Context,
	barberID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	loc, err := uc.location(ctx, barberID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.ParseDay(date, loc)
	if err != nil {
		return nil, err
	}

	return uc.list(ctx, barberID, day, day.AddDate(0, 0, 1))
}

func (uc *ListAgenda) ByMonth(
	ctx context.Context,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1900 || year > 2100 {
		return nil, httperr.InvalidArgumentf("invalid_month", "Mes inválido %04d-%02d", year, month)
	}

	loc, err := uc.location(ctx, barberID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return uc.list(ctx, barberID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAgenda) location(ctx context.Context, barberID uint) (*time.Location, error) {
	barber, err := uc.catalog.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if barber.BranchID == nil {
		return timezone.Business(), nil
	}
	branch, err := uc.catalog.GetBranch(ctx, *barber.BranchID)
	if err != nil {
		return nil, err
	}
	return timezone.Location(branch.Timezone), nil
}

func (uc *ListAgenda) list(
	ctx context.Context,
	barberID uint,
	from, to time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListForBarber(ctx, barberID, from, to)
	if err != nil {
		return nil, err
	}

	services := map[uint]string{}
	clients := map[uint]string{}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		row := dto.AppointmentListDTO{
			ID:        ap.ID,
			StartTime: ap.StartTime.In(from.Location()),
			EndTime:   ap.EndTime.In(from.Location()),
			Status:    ap.Status,
			Origin:    ap.Origin,
		}

		if row.ServiceName, err = uc.serviceName(ctx, services, ap); err != nil {
			return nil, err
		}
		if ap.ClientID != nil {
			if row.ClientName, err = uc.clientName(ctx, clients, *ap.ClientID); err != nil {
				return nil, err
			}
		}
		out = append(out, row)
	}

	return out, nil
}

func (uc *ListAgenda) serviceName(ctx context.Context, cache map[uint]string, ap models.Appointment) (string, error) {
	if name, ok := cache[ap.ServiceID]; ok {
		return name, nil
	}
	svc, err := uc.catalog.GetService(ctx, ap.ServiceID)
	if httperr.IsKind(err, httperr.KindNotFound) {
		cache[ap.ServiceID] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	cache[ap.ServiceID] = svc.Name
	return svc.Name, nil
}

func (uc *ListAgenda) clientName(ctx context.Context, cache map[uint]string, id uint) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	c, err := uc.catalog.GetClient(ctx, id)
	if httperr.IsKind(err, httperr.KindNotFound) {
		cache[id] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	cache[id] = c.Name
	return c.Name, nil
}
