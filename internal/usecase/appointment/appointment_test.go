package appointment

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/infra/lock"
	"github.com/BruksfildServices01/barberia-api/internal/infra/memory"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/availability"
)

type fixture struct {
	store   *memory.Store
	branch  models.Branch
	barber  models.Barber
	service models.Service
	client  models.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	f := &fixture{store: st}

	f.branch = models.Branch{Name: "Centro", Timezone: "America/Mexico_City", Active: true}
	must(t, st.CreateBranch(ctx, &f.branch))
	f.barber = models.Barber{Name: "Luis", BranchID: &f.branch.ID, Active: true}
	must(t, st.CreateBarber(ctx, &f.barber))
	f.service = models.Service{Name: "Corte", DurationMin: 30, Active: true}
	must(t, st.CreateService(ctx, &f.service))
	f.client = models.Client{Name: "Marta", ExternalCode: "CLI-1"}
	must(t, st.CreateClient(ctx, &f.client))

	must(t, st.SaveBranchSchedule(ctx, &models.BranchSchedule{BranchID: f.branch.ID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"}))
	must(t, st.SaveBarberSchedule(ctx, &models.BarberSchedule{BarberID: f.barber.ID, Weekday: 1, StartTime: "10:00", EndTime: "14:00"}))
	return f
}

func (f *fixture) input(start, end string) ReserveInput {
	return ReserveInput{
		ServiceID: f.service.ID,
		BranchID:  f.branch.ID,
		BarberID:  f.barber.ID,
		ClientID:  &f.client.ID,
		Start:     start,
		End:       end,
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserve_CreatesReserved(t *testing.T) {
	f := newFixture(t)
	uc := NewReserveAppointment(f.store, f.store, lock.Noop{}, nil, nil)

	ap, err := uc.Execute(context.Background(), f.input("2025-12-22 10:00", "2025-12-22 10:30"))
	must(t, err)

	if ap.ID == 0 || ap.Status != string(domain.StatusReserved) {
		t.Fatalf("unexpected appointment %+v", ap)
	}
	if ap.Origin != "INTERNAL" {
		t.Errorf("origin = %q, want INTERNAL", ap.Origin)
	}
}

func TestReserve_EndDefaultsToServiceDuration(t *testing.T) {
	f := newFixture(t)
	uc := NewReserveAppointment(f.store, f.store, nil, nil, nil)

	ap, err := uc.Execute(context.Background(), f.input("2025-12-22T11:00", ""))
	must(t, err)
	if got := ap.EndTime.Sub(ap.StartTime).Minutes(); got != 30 {
		t.Fatalf("duration = %v minutes, want 30", got)
	}
}

func TestReserve_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	uc := NewReserveAppointment(f.store, f.store, nil, nil, nil)
	ghost := uint(99)

	other := models.Branch{Name: "Norte", Active: true}
	must(t, f.store.CreateBranch(context.Background(), &other))

	tests := []struct {
		name string
		in   func() ReserveInput
		code string
	}{
		{"service first", func() ReserveInput {
			in := f.input("bad", "bad")
			in.ServiceID, in.BranchID = 99, 99
			return in
		}, "service_not_found"},
		{"branch", func() ReserveInput {
			in := f.input("bad", "bad")
			in.BranchID = 99
			return in
		}, "branch_not_found"},
		{"barber", func() ReserveInput {
			in := f.input("bad", "bad")
			in.BarberID = 99
			return in
		}, "barber_not_found"},
		{"barber of another branch", func() ReserveInput {
			in := f.input("bad", "bad")
			in.BranchID = other.ID
			return in
		}, "barber_not_in_branch"},
		{"client", func() ReserveInput {
			in := f.input("bad", "bad")
			in.ClientID = &ghost
			return in
		}, "client_not_found"},
		{"dates", func() ReserveInput { return f.input("bad", "bad") }, "invalid_date"},
		{"inverted", func() ReserveInput {
			return f.input("2025-12-22 11:00", "2025-12-22 10:00")
		}, "invalid_range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in())
			if !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReserve_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	uc := NewReserveAppointment(f.store, f.store, nil, nil, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.input("2025-12-22 10:00", "2025-12-22 11:00"))
	must(t, err)

	_, err = uc.Execute(ctx, f.input("2025-12-22 10:30", "2025-12-22 11:30"))
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}

	// Touching intervals do not overlap.
	_, err = uc.Execute(ctx, f.input("2025-12-22 11:00", "2025-12-22 11:30"))
	must(t, err)
}

func TestReserve_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	uc := NewReserveAppointment(f.store, f.store, lock.Noop{}, nil, nil)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), f.input("2025-12-22 12:00", "2025-12-22 12:30"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case httperr.IsBusiness(err, "slot_taken"):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflicts != callers-1 {
		t.Fatalf("wins = %d conflicts = %d, want 1 and %d", wins, conflicts, callers-1)
	}
}

func TestReserve_FreesSlotInAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	check := availability.NewCheck(f.store, f.store)
	in := availability.CheckInput{ServiceID: f.service.ID, BranchID: f.branch.ID, From: "2025-12-22", To: "2025-12-22"}

	ap, err := NewReserveAppointment(f.store, f.store, nil, nil, nil).Execute(ctx, f.input("2025-12-22 10:00", ""))
	must(t, err)

	slots, err := check.Execute(ctx, in)
	must(t, err)
	if slots[0].Available {
		t.Fatal("reserved slot reported available")
	}

	_, err = NewCancelAppointment(f.store, nil).Execute(ctx, ap.ID, "cliente no asiste", nil)
	must(t, err)

	slots, err = check.Execute(ctx, in)
	must(t, err)
	if !slots[0].Available {
		t.Fatal("cancelled slot still blocked")
	}
}

func TestConfirmAndCancel_StateMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := NewReserveAppointment(f.store, f.store, nil, nil, nil).Execute(ctx, f.input("2025-12-22 13:00", ""))
	must(t, err)

	confirm := NewConfirmAppointment(f.store, nil)
	cancel := NewCancelAppointment(f.store, nil)

	got, err := confirm.Execute(ctx, ap.ID, nil)
	must(t, err)
	if got.Status != string(domain.StatusConfirmed) || got.ConfirmedAt == nil {
		t.Fatalf("confirm produced %+v", got)
	}
	confirmedAt := *got.ConfirmedAt

	got, err = confirm.Execute(ctx, ap.ID, nil)
	must(t, err)
	if !got.ConfirmedAt.Equal(confirmedAt) {
		t.Fatal("second confirm should be a no-op")
	}

	got, err = cancel.Execute(ctx, ap.ID, "primera", nil)
	must(t, err)
	if got.Status != string(domain.StatusCancelled) || got.CancelReason != "primera" {
		t.Fatalf("cancel produced %+v", got)
	}

	got, err = cancel.Execute(ctx, ap.ID, "segunda", nil)
	must(t, err)
	if got.CancelReason != "segunda" {
		t.Errorf("reason = %q, want overwrite", got.CancelReason)
	}
	got, err = cancel.Execute(ctx, ap.ID, "", nil)
	must(t, err)
	if got.CancelReason != "segunda" {
		t.Errorf("empty reason must keep %q, got %q", "segunda", got.CancelReason)
	}

	_, err = confirm.Execute(ctx, ap.ID, nil)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("confirm after cancel err = %v, want invalid_state", err)
	}

	_, err = cancel.Execute(ctx, 999, "", nil)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListAgenda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reserve := NewReserveAppointment(f.store, f.store, nil, nil, nil)

	first, err := reserve.Execute(ctx, f.input("2025-12-22 10:00", ""))
	must(t, err)
	_, err = reserve.Execute(ctx, f.input("2025-12-22 12:00", ""))
	must(t, err)
	_, err = reserve.Execute(ctx, f.input("2026-01-05 10:00", ""))
	must(t, err)
	_, err = NewCancelAppointment(f.store, nil).Execute(ctx, first.ID, "", nil)
	must(t, err)

	agenda := NewListAgenda(f.store, f.store)

	day, err := agenda.ByDate(ctx, f.barber.ID, "2025-12-22")
	must(t, err)
	if len(day) != 2 {
		t.Fatalf("got %d appointments, want 2", len(day))
	}
	if day[0].Status != string(domain.StatusCancelled) || day[0].ServiceName != "Corte" || day[0].ClientName != "Marta" {
		t.Errorf("unexpected first row %+v", day[0])
	}

	month, err := agenda.ByMonth(ctx, f.barber.ID, 2025, 12)
	must(t, err)
	if len(month) != 2 {
		t.Fatalf("got %d appointments in december, want 2", len(month))
	}

	if _, err := agenda.ByMonth(ctx, f.barber.ID, 2025, 13); !httperr.IsKind(err, httperr.KindInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

// interleavedStore runs between once, right after the first appointment
// read, so a competing transition commits inside the caller's
// read-then-write window.
type interleavedStore struct {
	*memory.Store
	once    sync.Once
	between func()
}

func (s *interleavedStore) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := s.Store.GetAppointment(ctx, id)
	s.once.Do(s.between)
	return ap, err
}

func TestConfirm_LosesToConcurrentCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := NewReserveAppointment(f.store, f.store, nil, nil, nil).Execute(ctx, f.input("2025-12-22 10:00", ""))
	must(t, err)

	repo := &interleavedStore{Store: f.store}
	repo.between = func() {
		if _, err := NewCancelAppointment(f.store, nil).Execute(ctx, ap.ID, "cliente canceló", nil); err != nil {
			t.Errorf("cancel: %v", err)
		}
	}

	_, err = NewConfirmAppointment(repo, nil).Execute(ctx, ap.ID, nil)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("err = %v, want invalid_state", err)
	}

	got, _ := f.store.GetAppointment(ctx, ap.ID)
	if got.Status != string(domain.StatusCancelled) || got.CancelReason != "cliente canceló" || got.ConfirmedAt != nil {
		t.Fatalf("cancelled appointment changed: %+v", got)
	}
}

func TestCancel_RetriesAfterConcurrentConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := NewReserveAppointment(f.store, f.store, nil, nil, nil).Execute(ctx, f.input("2025-12-22 10:00", ""))
	must(t, err)

	repo := &interleavedStore{Store: f.store}
	repo.between = func() {
		if _, err := NewConfirmAppointment(f.store, nil).Execute(ctx, ap.ID, nil); err != nil {
			t.Errorf("confirm: %v", err)
		}
	}

	got, err := NewCancelAppointment(repo, nil).Execute(ctx, ap.ID, "sin pago", nil)
	must(t, err)
	if got.Status != string(domain.StatusCancelled) || got.CancelReason != "sin pago" {
		t.Fatalf("unexpected appointment %+v", got)
	}

	stored, _ := f.store.GetAppointment(ctx, ap.ID)
	if stored.Status != string(domain.StatusCancelled) {
		t.Fatalf("stored status = %s, want CANCELLED", stored.Status)
	}
}

func TestTransitionAppointment_RejectsStaleStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := NewReserveAppointment(f.store, f.store, nil, nil, nil).Execute(ctx, f.input("2025-12-22 12:00", ""))
	must(t, err)
	_, err = NewCancelAppointment(f.store, nil).Execute(ctx, ap.ID, "", nil)
	must(t, err)

	stale := *ap
	stale.Status = string(domain.StatusConfirmed)
	if err := f.store.TransitionAppointment(ctx, &stale, domain.StatusReserved); !domain.IsStateChanged(err) {
		t.Fatalf("err = %v, want state_changed", err)
	}
	if err := f.store.TransitionAppointment(ctx, &models.Appointment{ID: 999}, domain.StatusReserved); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

// releaseFailingLocker grants the lock but cannot release it.
type releaseFailingLocker struct{}

func (releaseFailingLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return errors.New("redis gone") }, nil
}

func TestReserve_LogsLockReleaseFailure(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	uc := NewReserveAppointment(f.store, f.store, releaseFailingLocker{}, nil, log)
	_, err := uc.Execute(context.Background(), f.input("2025-12-22 10:30", ""))
	must(t, err)

	if !strings.Contains(buf.String(), "booking lock release failed") || !strings.Contains(buf.String(), "redis gone") {
		t.Fatalf("expected release failure in injected logger, got %q", buf.String())
	}
}
