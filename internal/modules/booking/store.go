// README: Ledger port. Implementations enforce the transition and exclusivity checks.
package booking

import (
	"context"
	"time"

	"cargolink/internal/types"
)

// Filter narrows List results. The zero value matches every booking. From
// and To bound CreatedAt inclusively; either may be zero to leave that side
// open.
type Filter struct {
	Status Status
	From   time.Time
	To     time.Time
}

// Matches reports whether a booking passes the filter. Both stores apply
// the same predicate, the pg store in SQL.
func (f Filter) Matches(b *Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && b.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && b.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// Store is the authoritative ledger of bookings plus the mirrored driver
// roster. ApplyClaim and ApplyComplete are conditional updates guarded by the
// expected prior state: they report false when the record was not in that
// state, and leave no partial effect in that case. ApplyComplete stamps
// completedAt and credits the booking's cost to the driver in the same
// commit.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
	ListByDriver(ctx context.Context, driverID types.ID, status Status) ([]Booking, error)
	ApplyClaim(ctx context.Context, id, driverID types.ID) (bool, error)
	ApplyComplete(ctx context.Context, id, driverID types.ID, completedAt time.Time) (bool, error)
	GetDriver(ctx context.Context, id types.ID) (*Driver, error)
	ListDrivers(ctx context.Context) ([]Driver, error)
}
