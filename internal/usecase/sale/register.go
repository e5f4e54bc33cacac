package sale

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/appointment"
)

// reuseTolerance is how far a repeated partner request may drift and still
// hit the appointment created the first time.
const reuseTolerance = 5 * time.Minute

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type MallSaleInput struct {
	MallOrderID        string
	UserID             string
	StoreID            uint
	ServiceExternalID  string
	ServiceName        string
	ServiceDescription string
	ServicePrice       float64
	AppointmentDate    string
	AppointmentTime    string
	DurationMinutes    int
	PaymentStatus      string
	PaymentMethod      string
	Quantity           int
	DiscountAmount     float64
	Origin             string
	Comments           string
}

type MallSaleResult struct {
	Message           string `json:"message"`
	SaleID            uint   `json:"venta_id_barberia"`
	ReservationCode   string `json:"codigo_reserva"`
	MallOrderID       string `json:"mall_order_id"`
	AppointmentStatus string `json:"estatus_cita"`
	AppointmentDate   string `json:"fecha_cita,omitempty"`
	AppointmentTime   string `json:"hora_cita,omitempty"`
	DurationMinutes   int    `json:"duracion_minutos"`
}

// ======================================================
// USE CASE
// ======================================================

type RegisterMallSale struct {
	catalog      catalog.Repository
	sales        sale.Repository
	appointments domain.Repository
	reserve      *appointment.ReserveAppointment
	confirm      *appointment.ConfirmAppointment
	cancel       *appointment.CancelAppointment
	audit        *audit.Dispatcher
	log          *slog.Logger
}

func NewRegisterMallSale(
	cat catalog.Repository,
	sales sale.Repository,
	apps domain.Repository,
	reserve *appointment.ReserveAppointment,
	confirm *appointment.ConfirmAppointment,
	cancel *appointment.CancelAppointment,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *RegisterMallSale {
	if log == nil {
		log = slog.Default()
	}
	return &RegisterMallSale{
		catalog:      cat,
		sales:        sales,
		appointments: apps,
		reserve:      reserve,
		confirm:      confirm,
		cancel:       cancel,
		audit:        audit,
		log:          log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RegisterMallSale) Execute(
	ctx context.Context,
	in MallSaleInput,
) (*MallSaleResult, error) {

	// --------------------------------------------------
	// 1. Validate everything before touching storage
	// --------------------------------------------------
	code := strings.TrimSpace(in.ServiceExternalID)
	if code == "" || strings.TrimSpace(in.ServiceName) == "" {
		return nil, httperr.InvalidArgumentf("missing_service", "service_external_id y service_name son requeridos")
	}
	if in.ServicePrice < 0 {
		return nil, httperr.InvalidArgumentf("invalid_price", "service_price no puede ser negativo")
	}
	if in.DurationMinutes <= 0 {
		return nil, httperr.InvalidArgumentf("invalid_duration", "duration_minutes debe ser mayor a 0")
	}

	status, err := sale.ParseStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	gross := in.ServicePrice * float64(quantity)
	if in.DiscountAmount < 0 || in.DiscountAmount > gross {
		return nil, httperr.InvalidArgumentf("invalid_discount", "discount_amount debe estar entre 0 y %.2f", gross)
	}

	branch, err := uc.catalog.GetBranch(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(branch.Timezone)

	at, err := appointmentTime(in.AppointmentDate, in.AppointmentTime, loc)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Service and client upserts
	// --------------------------------------------------
	service := &models.Service{
		BranchID:     &branch.ID,
		Name:         strings.TrimSpace(in.ServiceName),
		Description:  in.ServiceDescription,
		DurationMin:  in.DurationMinutes,
		Price:        in.ServicePrice,
		Active:       true,
		ExternalCode: &code,
	}
	if err := uc.catalog.UpsertServiceByExternalCode(ctx, service); err != nil {
		return nil, err
	}

	client, err := uc.ensureClient(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Appointment (reuse a near duplicate or reserve)
	// --------------------------------------------------
	var (
		ap    *models.Appointment
		fresh bool
	)
	if at != nil {
		ap, fresh, err = uc.ensureAppointment(ctx, branch, service, client, *at)
		if err != nil {
			return nil, err
		}
	}

	compensate := func(cause error) {
		if !fresh {
			return
		}
		if _, err := uc.cancel.Execute(context.WithoutCancel(ctx), ap.ID, "Venta no completada", nil); err != nil {
			uc.log.ErrorContext(ctx, "compensating cancellation failed",
				"appointment_id", ap.ID, "cause", cause, "error", err)
		}
	}

	// --------------------------------------------------
	// 4. Sale and line in one transaction
	// --------------------------------------------------
	origin := strings.TrimSpace(in.Origin)
	if origin == "" {
		origin = "MALL"
	}
	s := &models.Sale{
		OrderCode:  "ORD-" + uuid.NewString(),
		ClientID:   client.ID,
		BranchID:   branch.ID,
		Status:     string(status),
		TotalGross: gross,
		Discount:   in.DiscountAmount,
		TotalNet:   gross - in.DiscountAmount,
		Origin:     origin,
		Comments:   in.Comments,
	}
	line := models.SaleLine{
		ServiceID:         service.ID,
		Quantity:          quantity,
		UnitPrice:         in.ServicePrice,
		Discount:          in.DiscountAmount,
		Total:             gross - in.DiscountAmount,
		ServiceExternalID: code,
	}
	if ap != nil {
		line.AppointmentID = &ap.ID
		line.AppointmentTime = ap.StartTime.In(loc).Format(time.RFC3339)
	}

	if err := uc.sales.CreateSale(ctx, s, []models.SaleLine{line}); err != nil {
		compensate(err)
		return nil, fmt.Errorf("create sale: %w", err)
	}

	// --------------------------------------------------
	// 5. Appointment follows the sale status
	// --------------------------------------------------
	if ap != nil {
		if status == sale.StatusCancelled {
			ap, err = uc.cancel.Execute(ctx, ap.ID, "Venta cancelada desde mall", nil)
		} else {
			ap, err = uc.confirm.Execute(ctx, ap.ID, nil)
		}
		if err != nil {
			compensate(err)
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: &branch.ID,
		Action:   "sale_registered",
		Entity:   "sale",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"order_code":     s.OrderCode,
			"mall_order_id":  in.MallOrderID,
			"payment_method": in.PaymentMethod,
		},
	})

	return mallResult(s, ap, in, loc), nil
}

func (uc *RegisterMallSale) ensureClient(ctx context.Context, userID string) (*models.Client, error) {
	code := strings.TrimSpace(userID)
	if code != "" {
		c, err := uc.catalog.FindClientByExternalCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	} else {
		code = "CLI-EXT-" + uuid.NewString()
	}

	c := &models.Client{
		Name:         "Usuario Mall - " + code,
		ExternalCode: code,
	}
	if err := uc.catalog.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureAppointment returns the appointment backing the sale and whether
// it was created by this call.
func (uc *RegisterMallSale) ensureAppointment(
	ctx context.Context,
	branch *models.Branch,
	service *models.Service,
	client *models.Client,
	start time.Time,
) (*models.Appointment, bool, error) {

	existing, err := uc.appointments.FindNear(ctx, branch.ID, service.ID, client.ID, start, reuseTolerance)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	barbers, err := uc.catalog.ListActiveBarbers(ctx, branch.ID)
	if err != nil {
		return nil, false, err
	}
	resolver := schedule.NewResolver(uc.catalog)

	for _, barber := range barbers {
		w, err := resolver.ResolveComposite(ctx, branch.ID, barber.ID, start)
		if err != nil {
			return nil, false, err
		}
		from := schedule.MinuteOf(start)
		if w == nil || !w.Contains(from, from+service.DurationMin) {
			continue
		}

		ap, err := uc.reserve.ReserveAt(ctx, appointment.ReserveInput{
			ServiceID: service.ID,
			BranchID:  branch.ID,
			BarberID:  barber.ID,
			ClientID:  &client.ID,
			Origin:    "MALL",
		}, start, end)
		if httperr.IsKind(err, httperr.KindConflict) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return ap, true, nil
	}

	return nil, false, httperr.InvalidArgumentf("no_barber_available",
		"No hay barberos disponibles para el horario solicitado")
}

// appointmentTime combines the partner's date and time fields. The time
// may be "HH:mm" (joined with the date) or a full timestamp. A date alone
// means midnight; neither means no appointment.
func appointmentTime(date, clock string, loc *time.Location) (*time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)

	if clock == "" {
		if date == "" {
			return nil, nil
		}
		day, err := schedule.ParseDay(date, loc)
		if err != nil {
			return nil, err
		}
		return &day, nil
	}

	if m := clockPattern.FindStringSubmatch(clock); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		if h > 23 || mi > 59 {
			return nil, httperr.InvalidArgumentf("invalid_time", "apointment_time debe estar entre 00:00 y 23:59")
		}
		base := time.Now().In(loc)
		if date != "" {
			day, err := schedule.ParseDay(date, loc)
			if err != nil {
				return nil, err
			}
			base = day
		}
		t := schedule.At(schedule.StartOfDay(base), h*60+mi)
		return &t, nil
	}

	t, err := schedule.ParseFriendly(clock, loc, false)
	if err != nil {
		return nil, httperr.InvalidArgumentf("invalid_time", "El formato de apointment_time no es válido")
	}
	return &t, nil
}

func mallResult(s *models.Sale, ap *models.Appointment, in MallSaleInput, loc *time.Location) *MallSaleResult {
	out := &MallSaleResult{
		Message:           "Cita registrada correctamente en Barbería",
		SaleID:            s.ID,
		MallOrderID:       s.OrderCode,
		AppointmentStatus: string(domain.StatusReserved),
		DurationMinutes:   in.DurationMinutes,
	}
	if ap != nil {
		out.AppointmentStatus = ap.Status
		start := ap.StartTime.In(loc)
		out.AppointmentDate = start.Format(time.DateOnly)
		out.AppointmentTime = start.Format(time.TimeOnly)
	}
	if sale.Status(s.Status) == sale.StatusCancelled {
		out.Message = "Cita cancelada en Barbería"
		out.AppointmentStatus = string(domain.StatusCancelled)
	}

	day := out.AppointmentDate
	if day == "" {
		day = time.Now().In(loc).Format(time.DateOnly)
	}
	out.ReservationCode = fmt.Sprintf("BAR-%s-%d", strings.ReplaceAll(day, "-", ""), s.ID)
	return out
}
