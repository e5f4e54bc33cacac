package availability

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/infra/memory"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

const shopTZ = "America/Mexico_City"

type fixture struct {
	store   *memory.Store
	branch  models.Branch
	barber  models.Barber
	service models.Service
}

// newFixture builds a branch open Mondays 09:00-18:00 with one barber
// working 10:00-14:00 and a 30 minute service coded "CORTE-01".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()

	f := &fixture{store: st}
	f.branch = models.Branch{Name: "Centro", Timezone: shopTZ, Active: true}
	must(t, st.CreateBranch(ctx, &f.branch))

	f.barber = models.Barber{Name: "Luis", BranchID: &f.branch.ID, Active: true}
	must(t, st.CreateBarber(ctx, &f.barber))

	code := "CORTE-01"
	f.service = models.Service{Name: "Corte", DurationMin: 30, Active: true, ExternalCode: &code}
	must(t, st.CreateService(ctx, &f.service))

	must(t, st.SaveBranchSchedule(ctx, &models.BranchSchedule{BranchID: f.branch.ID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"}))
	must(t, st.SaveBarberSchedule(ctx, &models.BarberSchedule{BarberID: f.barber.ID, Weekday: 1, StartTime: "10:00", EndTime: "14:00"}))
	return f
}

func (f *fixture) book(t *testing.T, start string, minutes int) models.Appointment {
	t.Helper()
	loc := timezone.Location(shopTZ)
	at, err := time.ParseInLocation("2006-01-02 15:04", start, loc)
	must(t, err)
	ap := models.Appointment{
		BranchID:  f.branch.ID,
		BarberID:  f.barber.ID,
		ServiceID: f.service.ID,
		StartTime: at,
		EndTime:   at.Add(time.Duration(minutes) * time.Minute),
		Status:    "RESERVED",
	}
	must(t, f.store.Reserve(context.Background(), &ap))
	return ap
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_CompositeWindow(t *testing.T) {
	f := newFixture(t)
	uc := NewCheck(f.store, f.store)

	slots, err := uc.Execute(context.Background(), CheckInput{
		ServiceID: f.service.ID,
		BranchID:  f.branch.ID,
		From:      "2025-12-22",
		To:        "2025-12-22",
	})
	must(t, err)

	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if got := slots[0].Start.Format("15:04"); got != "10:00" {
		t.Errorf("first slot starts %s, want 10:00", got)
	}
	if got := slots[7].End.Format("15:04"); got != "14:00" {
		t.Errorf("last slot ends %s, want 14:00", got)
	}
	for _, s := range slots {
		if !s.Available {
			t.Errorf("slot %s unexpectedly unavailable", s.Start)
		}
	}
}

func TestCheck_MarksBookedAndBreaks(t *testing.T) {
	f := newFixture(t)
	f.book(t, "2025-12-22 10:30", 30)
	must(t, f.store.CreateBreak(context.Background(), &models.BarberBreak{
		BarberID: f.barber.ID, Weekday: 1, StartTime: "12:00", EndTime: "13:00", Label: "comida",
	}))

	slots, err := NewCheck(f.store, f.store).Execute(context.Background(), CheckInput{
		ServiceID: f.service.ID,
		BranchID:  f.branch.ID,
		From:      "2025-12-22 00:00",
		To:        "2025-12-22",
	})
	must(t, err)

	free := 0
	for _, s := range slots {
		if s.Available {
			free++
		}
	}
	if free != 5 {
		t.Fatalf("got %d free slots, want 5", free)
	}
}

func TestCheck_Errors(t *testing.T) {
	f := newFixture(t)
	uc := NewCheck(f.store, f.store)
	ghost := uint(99)

	tests := []struct {
		name string
		in   CheckInput
		code string
	}{
		{"unknown service", CheckInput{ServiceID: 99, BranchID: f.branch.ID, From: "2025-12-22", To: "2025-12-22"}, "service_not_found"},
		{"unknown branch", CheckInput{ServiceID: f.service.ID, BranchID: 99, From: "2025-12-22", To: "2025-12-22"}, "branch_not_found"},
		{"inverted range", CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, From: "2025-12-23", To: "2025-12-22"}, "invalid_range"},
		{"bad date", CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, From: "22/12/2025", To: "2025-12-22"}, "invalid_date"},
		{"unknown barber", CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, BarberID: &ghost, From: "2025-12-22", To: "2025-12-22"}, "barber_not_found"},
		{"closed day", CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, From: "2025-12-23", To: "2025-12-23"}, "no_window_in_range"},
		{"range too long", CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, From: "1900-01-01", To: "2100-12-31"}, "range_too_long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			if !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCheck_DiagnosesMissingConfiguration(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	branch := models.Branch{Name: "Norte", Timezone: shopTZ, Active: true}
	must(t, st.CreateBranch(ctx, &branch))
	barber := models.Barber{Name: "Ana", BranchID: &branch.ID, Active: true}
	must(t, st.CreateBarber(ctx, &barber))
	svc := models.Service{Name: "Barba", DurationMin: 20, Active: true}
	must(t, st.CreateService(ctx, &svc))

	uc := NewCheck(st, st)
	in := CheckInput{ServiceID: svc.ID, BranchID: branch.ID, From: "2025-12-22", To: "2025-12-22"}

	_, err := uc.Execute(ctx, in)
	if !httperr.IsBusiness(err, "branch_schedule_missing") {
		t.Fatalf("err = %v, want branch_schedule_missing", err)
	}

	must(t, st.SaveBranchSchedule(ctx, &models.BranchSchedule{BranchID: branch.ID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"}))
	_, err = uc.Execute(ctx, in)
	if !httperr.IsBusiness(err, "barber_schedule_missing") {
		t.Fatalf("err = %v, want barber_schedule_missing", err)
	}
	if !httperr.IsKind(err, httperr.KindUnconfigured) {
		t.Fatalf("err = %v, want unconfigured kind", err)
	}
}

func TestBarberAvailability(t *testing.T) {
	f := newFixture(t)
	f.book(t, "2025-12-22 11:00", 60)

	slots, err := NewBarberAvailability(f.store, f.store).Execute(context.Background(), BarberInput{
		BarberID: f.barber.ID,
		From:     "2025-12-22",
		To:       "2025-12-23",
	})
	must(t, err)

	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	busy := 0
	for _, s := range slots {
		if !s.Available {
			busy++
		}
	}
	if busy != 2 {
		t.Fatalf("got %d busy slots, want 2", busy)
	}
}

func TestBarberAvailability_IgnoresCancelled(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, "2025-12-22 10:00", 30)
	ap.Status = "CANCELLED"
	must(t, f.store.TransitionAppointment(context.Background(), &ap, domain.StatusReserved))

	slots, err := NewBarberAvailability(f.store, f.store).Execute(context.Background(), BarberInput{
		BarberID: f.barber.ID, From: "2025-12-22", To: "2025-12-22",
	})
	must(t, err)
	if !slots[0].Available {
		t.Fatal("a cancelled appointment must not block the slot")
	}
}

func TestBarberAvailability_WithoutBranch(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	b := models.Barber{Name: "Libre", Active: true}
	must(t, st.CreateBarber(ctx, &b))

	_, err := NewBarberAvailability(st, st).Execute(ctx, BarberInput{BarberID: b.ID, From: "2025-12-22", To: "2025-12-22"})
	if !httperr.IsKind(err, httperr.KindInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestBarberAvailability_RejectsLongRange(t *testing.T) {
	f := newFixture(t)

	_, err := NewBarberAvailability(f.store, f.store).Execute(context.Background(), BarberInput{
		BarberID: f.barber.ID, From: "2025-12-22", To: "2026-03-31",
	})
	if !httperr.IsBusiness(err, "range_too_long") {
		t.Fatalf("err = %v, want range_too_long", err)
	}
}

func TestMallDay(t *testing.T) {
	f := newFixture(t)
	f.book(t, "2025-12-22 10:00", 30)

	slots, err := NewMallDay(f.store, f.store).Execute(context.Background(), MallDayInput{
		StoreID:           f.branch.ID,
		ServiceExternalID: "CORTE-01",
		Date:              "2025-12-22",
	})
	must(t, err)

	if len(slots) != 7 {
		t.Fatalf("got %d slots, want 7", len(slots))
	}
	first := slots[0]
	if first.Start != "2025-12-22 10:30" || first.End != "2025-12-22 11:00" {
		t.Errorf("first slot = %s..%s", first.Start, first.End)
	}
	if first.AppointmentTime != "10:30" || first.DurationMinutes != 30 || first.ServiceID != "CORTE-01" {
		t.Errorf("unexpected slot %+v", first)
	}
	if first.BarberID != f.barber.ID {
		t.Errorf("barber = %d, want %d", first.BarberID, f.barber.ID)
	}
}

func TestMallDay_Errors(t *testing.T) {
	f := newFixture(t)
	other := uint(42)
	code := "OTRA-SUC"
	must(t, f.store.CreateService(context.Background(), &models.Service{
		Name: "Tinte", DurationMin: 60, Active: true, BranchID: &other, ExternalCode: &code,
	}))
	uc := NewMallDay(f.store, f.store)

	tests := []struct {
		name string
		in   MallDayInput
		kind httperr.Kind
	}{
		{"unknown code", MallDayInput{StoreID: f.branch.ID, ServiceExternalID: "NOPE", Date: "2025-12-22"}, httperr.KindNotFound},
		{"other branch", MallDayInput{StoreID: f.branch.ID, ServiceExternalID: code, Date: "2025-12-22"}, httperr.KindNotFound},
		{"loose date", MallDayInput{StoreID: f.branch.ID, ServiceExternalID: "CORTE-01", Date: "2025-12-22 10:00"}, httperr.KindInvalidArgument},
		{"year out of range", MallDayInput{StoreID: f.branch.ID, ServiceExternalID: "CORTE-01", Date: "2525-12-22"}, httperr.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			if !httperr.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}
}
