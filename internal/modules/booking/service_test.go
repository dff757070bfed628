// README: Dispatch coordinator tests (flow + invalid requests).
package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cargolink/internal/modules/pricing"
	"cargolink/internal/types"
)

type stubRouter struct {
	km  float64
	err error
}

func (r stubRouter) Route(_ context.Context, _, _ types.Point) (float64, error) {
	return r.km, r.err
}

type recordingLocations struct {
	mu      sync.Mutex
	drivers []types.ID
}

func (l *recordingLocations) Record(_ context.Context, driverID types.ID, _ types.Point) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drivers = append(l.drivers, driverID)
	return nil
}

func newTestService(km float64) *Service {
	return NewService(NewMemStore(), stubRouter{km: km}, pricing.NewService(), nil)
}

func validCreate() CreateCommand {
	return CreateCommand{
		PickupAddress:  "12 Dockside Rd",
		DropoffAddress: "99 Mill Lane",
		Pickup:         types.Point{Lat: 19.076, Lng: 72.8777},
		Dropoff:        types.Point{Lat: 18.5204, Lng: 73.8567},
		VehicleType:    pricing.VehicleCar,
	}
}

func TestCreateBookingComputesCost(t *testing.T) {
	svc := newTestService(10)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected status Pending, got %s", b.Status)
	}
	if b.DistanceKm != 10 {
		t.Fatalf("expected distance 10, got %v", b.DistanceKm)
	}
	if b.EstimatedCost != 400 {
		t.Fatalf("expected cost 400 (10km * Car rate 40), got %v", b.EstimatedCost)
	}
	if b.DriverID != nil {
		t.Fatal("expected no driver on a pending booking")
	}
	if b.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestService(10)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateCommand)
	}{
		{"empty pickup address", func(c *CreateCommand) { c.PickupAddress = "  " }},
		{"empty dropoff address", func(c *CreateCommand) { c.DropoffAddress = "" }},
		{"bad latitude", func(c *CreateCommand) { c.Pickup.Lat = 91 }},
		{"bad longitude", func(c *CreateCommand) { c.Dropoff.Lng = -200 }},
		{"unknown vehicle", func(c *CreateCommand) { c.VehicleType = "Rickshaw" }},
		{"empty vehicle", func(c *CreateCommand) { c.VehicleType = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := validCreate()
			tc.mutate(&cmd)
			if _, err := svc.CreateBooking(ctx, cmd); err != ErrValidation {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Rejected before any ledger write.
	all, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty ledger after rejected creates, got %d bookings", len(all))
	}
}

func TestCreateBookingRouteUnavailable(t *testing.T) {
	svc := NewService(NewMemStore(), stubRouter{err: errors.New("upstream timeout")}, pricing.NewService(), nil)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, validCreate())
	if !errors.Is(err, ErrRouteUnavailable) {
		t.Fatalf("expected ErrRouteUnavailable, got %v", err)
	}
	// The provider's failure detail survives the wrap for logs.
	if !strings.Contains(err.Error(), "upstream timeout") {
		t.Fatalf("expected provider detail in error, got %q", err)
	}

	all, _ := svc.List(ctx, Filter{})
	if len(all) != 0 {
		t.Fatal("expected no booking persisted when routing fails")
	}
}

func TestClaimCompleteHappyPath(t *testing.T) {
	svc := newTestService(10)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("expected the new booking in the pending pool, got %v", pending)
	}

	claimed, err := svc.Claim(ctx, ClaimCommand{BookingID: created.ID, DriverID: "driver1"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != StatusAccepted {
		t.Fatalf("expected Accepted, got %s", claimed.Status)
	}
	if claimed.DriverID == nil || *claimed.DriverID != "driver1" {
		t.Fatal("expected driver1 assigned")
	}
	if claimed.EstimatedCost != created.EstimatedCost {
		t.Fatal("cost changed across claim")
	}

	pending, _ = svc.ListAvailable(ctx)
	if len(pending) != 0 {
		t.Fatal("claimed booking still listed as available")
	}

	done, err := svc.Complete(ctx, CompleteCommand{BookingID: created.ID, DriverID: "driver1"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected Completed, got %s", done.Status)
	}
	if done.CompletedAt == nil {
		t.Fatal("expected completedAt stamped")
	}
	if done.EstimatedCost != created.EstimatedCost {
		t.Fatal("cost changed across completion")
	}

	jobs, earnings, err := svc.CompletedByDriver(ctx, "driver1")
	if err != nil {
		t.Fatalf("completed by driver: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 completed job, got %d", len(jobs))
	}
	if earnings != created.EstimatedCost {
		t.Fatalf("expected earnings %v, got %v", created.EstimatedCost, earnings)
	}
}

func TestClaimInvalidTransitions(t *testing.T) {
	svc := newTestService(5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: b.ID, DriverID: "d1"}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Retried claim after acceptance fails cleanly, no double apply.
	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: b.ID, DriverID: "d2"}); err != ErrInvalidTransition {
		t.Fatalf("claim on accepted booking: expected ErrInvalidTransition, got %v", err)
	}
	got, _ := svc.Get(ctx, b.ID)
	if got.DriverID == nil || *got.DriverID != "d1" {
		t.Fatal("assigned driver changed after failed re-claim")
	}

	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: "missing", DriverID: "d1"}); err != ErrNotFound {
		t.Fatalf("claim unknown booking: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: b.ID, DriverID: ""}); err != ErrValidation {
		t.Fatalf("claim without driver: expected ErrValidation, got %v", err)
	}
}

func TestCompleteGuards(t *testing.T) {
	svc := newTestService(5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Completing a pending booking skips a state.
	if _, err := svc.Complete(ctx, CompleteCommand{BookingID: b.ID, DriverID: "d1"}); err != ErrInvalidTransition {
		t.Fatalf("complete pending: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: b.ID, DriverID: "d1"}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Only the holder may complete.
	if _, err := svc.Complete(ctx, CompleteCommand{BookingID: b.ID, DriverID: "d2"}); err != ErrNotAssignedDriver {
		t.Fatalf("complete by other driver: expected ErrNotAssignedDriver, got %v", err)
	}
	got, _ := svc.Get(ctx, b.ID)
	if got.Status != StatusAccepted {
		t.Fatal("failed completion mutated the booking")
	}

	if _, err := svc.Complete(ctx, CompleteCommand{BookingID: b.ID, DriverID: "d1"}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Re-completing a completed booking.
	if _, err := svc.Complete(ctx, CompleteCommand{BookingID: b.ID, DriverID: "d1"}); err != ErrInvalidTransition {
		t.Fatalf("re-complete: expected ErrInvalidTransition, got %v", err)
	}

	// Earnings credited exactly once.
	_, earnings, err := svc.CompletedByDriver(ctx, "d1")
	if err != nil {
		t.Fatalf("completed by driver: %v", err)
	}
	if earnings != b.EstimatedCost {
		t.Fatalf("expected earnings %v after single completion, got %v", b.EstimatedCost, earnings)
	}
}

func TestClaimRecordsLocationHint(t *testing.T) {
	locations := &recordingLocations{}
	svc := NewService(NewMemStore(), stubRouter{km: 3}, pricing.NewService(), locations)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pos := types.Point{Lat: 19.07, Lng: 72.88}
	if _, err := svc.Claim(ctx, ClaimCommand{BookingID: b.ID, DriverID: "d1", Location: &pos}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	locations.mu.Lock()
	defer locations.mu.Unlock()
	if len(locations.drivers) != 1 || locations.drivers[0] != "d1" {
		t.Fatalf("expected one location hint for d1, got %v", locations.drivers)
	}
}

func TestListFilterValidation(t *testing.T) {
	svc := newTestService(5)
	if _, err := svc.List(context.Background(), Filter{Status: "Cancelled"}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for unknown status filter, got %v", err)
	}
	if _, err := svc.List(context.Background(), Filter{
		From: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for inverted date range, got %v", err)
	}
}

func TestListDateRange(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, stubRouter{km: 5}, pricing.NewService(), nil)
	ctx := context.Background()

	seedAt := func(id string, at time.Time, status Status) {
		b := &Booking{
			ID:             types.ID(id),
			PickupAddress:  "A",
			DropoffAddress: "B",
			VehicleType:    pricing.VehicleCar,
			Status:         status,
			CreatedAt:      at,
		}
		if err := store.Create(ctx, b); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seedAt("b1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), StatusPending)
	seedAt("b2", time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), StatusPending)
	seedAt("b3", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), StatusCompleted)

	got, err := svc.List(ctx, Filter{
		From: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings in range, got %d", len(got))
	}
	for _, b := range got {
		if b.ID == "b1" {
			t.Fatal("booking before the range returned")
		}
	}

	// Bounds are inclusive on CreatedAt.
	got, err = svc.List(ctx, Filter{
		From: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list exact bound: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("expected exactly b1 on the inclusive bound, got %v", got)
	}

	// Status and range compose.
	got, err = svc.List(ctx, Filter{
		Status: StatusPending,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list status+range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 pending bookings in range, got %d", len(got))
	}

	// Half-open: From alone, To alone.
	if got, _ = svc.List(ctx, Filter{From: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)}); len(got) != 1 {
		t.Fatalf("expected 1 booking from Mar 6, got %d", len(got))
	}
	if got, _ = svc.List(ctx, Filter{To: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)}); len(got) != 2 {
		t.Fatalf("expected 2 bookings up to Mar 6, got %d", len(got))
	}
}

func TestCompletedByDriverUnknownDriver(t *testing.T) {
	svc := newTestService(5)
	jobs, earnings, err := svc.CompletedByDriver(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("completed by driver: %v", err)
	}
	if len(jobs) != 0 || earnings != 0 {
		t.Fatalf("expected empty history and zero earnings, got %d jobs, %v", len(jobs), earnings)
	}
}
