// README: Dispatch coordinator; booking creation, claim, and completion.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargolink/internal/modules/pricing"
	"cargolink/internal/types"
)

// Router is the narrow contract of the external routing collaborator.
type Router interface {
	Route(ctx context.Context, origin, destination types.Point) (float64, error)
}

// Pricer turns a vehicle class and distance into a cost.
type Pricer interface {
	Estimate(ctx context.Context, vehicleType pricing.VehicleType, distanceKm float64) (float64, error)
}

// LocationRecorder receives the optional driver-location hint sent with a
// claim. Recording is best effort and never fails the claim.
type LocationRecorder interface {
	Record(ctx context.Context, driverID types.ID, pos types.Point) error
}

var (
	ErrValidation        = errors.New("invalid booking request")
	ErrNotFound          = errors.New("booking not found")
	ErrAlreadyClaimed    = errors.New("booking already claimed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAssignedDriver = errors.New("driver does not hold this booking")
	ErrRouteUnavailable  = errors.New("route unavailable")
)

type Service struct {
	store     Store
	router    Router
	pricer    Pricer
	locations LocationRecorder
}

func NewService(store Store, router Router, pricer Pricer, locations LocationRecorder) *Service {
	return &Service{store: store, router: router, pricer: pricer, locations: locations}
}

type CreateCommand struct {
	PickupAddress  string
	DropoffAddress string
	Pickup         types.Point
	Dropoff        types.Point
	VehicleType    pricing.VehicleType
}

type ClaimCommand struct {
	BookingID types.ID
	DriverID  types.ID
	Location  *types.Point
}

type CompleteCommand struct {
	BookingID types.ID
	DriverID  types.ID
}

// CreateBooking prices a draft and persists it as Pending. The cost is always
// computed here from the routing distance and the rate table; callers cannot
// supply one.
func (s *Service) CreateBooking(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	if strings.TrimSpace(cmd.PickupAddress) == "" || strings.TrimSpace(cmd.DropoffAddress) == "" {
		return nil, ErrValidation
	}
	if !cmd.Pickup.Valid() || !cmd.Dropoff.Valid() {
		return nil, ErrValidation
	}
	if !pricing.ValidVehicleType(cmd.VehicleType) {
		return nil, ErrValidation
	}

	distanceKm, err := s.router.Route(ctx, cmd.Pickup, cmd.Dropoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	cost, err := s.pricer.Estimate(ctx, cmd.VehicleType, distanceKm)
	if err != nil {
		return nil, fmt.Errorf("estimate cost: %w", err)
	}

	b := &Booking{
		ID:              types.ID(uuid.NewString()),
		PickupAddress:   cmd.PickupAddress,
		DropoffAddress:  cmd.DropoffAddress,
		PickupLocation:  cmd.Pickup,
		DropoffLocation: cmd.Dropoff,
		VehicleType:     cmd.VehicleType,
		DistanceKm:      distanceKm,
		EstimatedCost:   cost,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

// List returns bookings, optionally narrowed by status. Read-committed
// consistency: records mid-mutation appear in their last committed state.
func (s *Service) List(ctx context.Context, f Filter) ([]Booking, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, ErrValidation
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, ErrValidation
	}
	return s.store.List(ctx, f)
}

// ListAvailable is the driver-facing Pending pool.
func (s *Service) ListAvailable(ctx context.Context) ([]Booking, error) {
	return s.store.List(ctx, Filter{Status: StatusPending})
}

// Claim transitions one booking Pending → Accepted for exactly one caller.
// A booking observed outside Pending fails ErrInvalidTransition; losing the
// conditional update to a concurrent claimer fails ErrAlreadyClaimed. A
// failed claim is terminal for that attempt; callers retry against a
// different Pending booking.
func (s *Service) Claim(ctx context.Context, cmd ClaimCommand) (*Booking, error) {
	if cmd.DriverID == "" {
		return nil, ErrValidation
	}
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusAccepted) {
		return nil, ErrInvalidTransition
	}

	ok, err := s.store.ApplyClaim(ctx, cmd.BookingID, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyClaimed
	}

	if cmd.Location != nil && s.locations != nil {
		// Stored for operational tooling only; never used in pricing and
		// never allowed to fail the claim.
		_ = s.locations.Record(ctx, cmd.DriverID, *cmd.Location)
	}

	return s.store.Get(ctx, cmd.BookingID)
}

// Complete finalizes an Accepted booking. Only the assigned driver may
// complete; the status flip and the earnings credit commit together.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) (*Booking, error) {
	if cmd.DriverID == "" {
		return nil, ErrValidation
	}
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusCompleted) {
		return nil, ErrInvalidTransition
	}
	if b.DriverID == nil || *b.DriverID != cmd.DriverID {
		return nil, ErrNotAssignedDriver
	}

	ok, err := s.store.ApplyComplete(ctx, cmd.BookingID, cmd.DriverID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	return s.store.Get(ctx, cmd.BookingID)
}

// CompletedByDriver serves the driver dashboard: the driver's completed
// bookings and their cumulative earnings. A driver the ledger has never seen
// simply has no jobs and zero earnings.
func (s *Service) CompletedByDriver(ctx context.Context, driverID types.ID) ([]Booking, float64, error) {
	jobs, err := s.store.ListByDriver(ctx, driverID, StatusCompleted)
	if err != nil {
		return nil, 0, err
	}
	d, err := s.store.GetDriver(ctx, driverID)
	if errors.Is(err, ErrNotFound) {
		return jobs, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return jobs, d.EarningsTotal, nil
}
