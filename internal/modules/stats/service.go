// README: Aggregation engine; read-only derived views over the ledger.
package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"cargolink/internal/modules/booking"
)

var ErrInvalidRange = errors.New("invalid date range")

// DefaultTopRoutes is used when the caller does not ask for a specific k.
const DefaultTopRoutes = 5

// Ledger is the read side of the booking store this engine derives from.
// Each metric reads one committed snapshot; a booking mid-completion appears
// as Accepted or Completed, never as Completed without its earnings credit.
type Ledger interface {
	List(ctx context.Context, f booking.Filter) ([]booking.Booking, error)
	ListDrivers(ctx context.Context) ([]booking.Driver, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// StatusHistogram counts bookings grouped by status. Every status appears,
// zero-valued when empty.
func (s *Service) StatusHistogram(ctx context.Context) (map[booking.Status]int, error) {
	all, err := s.ledger.List(ctx, booking.Filter{})
	if err != nil {
		return nil, err
	}
	hist := map[booking.Status]int{
		booking.StatusPending:   0,
		booking.StatusAccepted:  0,
		booking.StatusCompleted: 0,
	}
	for _, b := range all {
		hist[b.Status]++
	}
	return hist, nil
}

// DriverActivity counts Available vs Busy over the mirrored roster. A driver
// is Busy iff an Accepted booking currently references it.
func (s *Service) DriverActivity(ctx context.Context) (DriverActivity, error) {
	drivers, err := s.ledger.ListDrivers(ctx)
	if err != nil {
		return DriverActivity{}, err
	}
	accepted, err := s.ledger.List(ctx, booking.Filter{Status: booking.StatusAccepted})
	if err != nil {
		return DriverActivity{}, err
	}

	busy := make(map[string]bool, len(accepted))
	for _, b := range accepted {
		if b.DriverID != nil {
			busy[string(*b.DriverID)] = true
		}
	}

	var act DriverActivity
	for _, d := range drivers {
		if busy[string(d.ID)] {
			act.Busy++
		} else {
			act.Available++
		}
	}
	return act, nil
}

// BookingTrend returns (date, creation count) pairs in ascending date order.
func (s *Service) BookingTrend(ctx context.Context, bucket Bucket) ([]TrendPoint, error) {
	all, err := s.ledger.List(ctx, booking.Filter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, b := range all {
		counts[bucketKey(b.CreatedAt, bucket)]++
	}
	out := make([]TrendPoint, 0, len(counts))
	for date, n := range counts {
		out = append(out, TrendPoint{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// RevenueTrend returns (date, sum cost) pairs over Completed bookings in
// ascending date order, bucketed by completion time.
func (s *Service) RevenueTrend(ctx context.Context, bucket Bucket) ([]RevenuePoint, error) {
	completed, err := s.ledger.List(ctx, booking.Filter{Status: booking.StatusCompleted})
	if err != nil {
		return nil, err
	}
	sums := make(map[string]float64)
	for _, b := range completed {
		if b.CompletedAt == nil {
			continue
		}
		sums[bucketKey(*b.CompletedAt, bucket)] += b.EstimatedCost
	}
	out := make([]RevenuePoint, 0, len(sums))
	for date, amount := range sums {
		out = append(out, RevenuePoint{Date: date, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// AverageRevenue is the mean cost over Completed bookings, 0 when there are
// none.
func (s *Service) AverageRevenue(ctx context.Context) (float64, error) {
	completed, err := s.ledger.List(ctx, booking.Filter{Status: booking.StatusCompleted})
	if err != nil {
		return 0, err
	}
	if len(completed) == 0 {
		return 0, nil
	}
	var total float64
	for _, b := range completed {
		total += b.EstimatedCost
	}
	return total / float64(len(completed)), nil
}

// TopRoutes returns the k most-booked (pickup, dropoff) pairs, count
// descending. Ties are broken by the earliest first-seen booking on the
// route, then by pickup and dropoff lexicographically. k <= 0 falls back to
// DefaultTopRoutes.
func (s *Service) TopRoutes(ctx context.Context, k int) ([]RouteCount, error) {
	if k <= 0 {
		k = DefaultTopRoutes
	}
	all, err := s.ledger.List(ctx, booking.Filter{})
	if err != nil {
		return nil, err
	}

	type routeAgg struct {
		RouteCount
		firstSeen time.Time
	}
	byRoute := make(map[[2]string]*routeAgg)
	for _, b := range all {
		key := [2]string{b.PickupAddress, b.DropoffAddress}
		agg, ok := byRoute[key]
		if !ok {
			agg = &routeAgg{
				RouteCount: RouteCount{Pickup: b.PickupAddress, Dropoff: b.DropoffAddress},
				firstSeen:  b.CreatedAt,
			}
			byRoute[key] = agg
		}
		agg.Count++
		if b.CreatedAt.Before(agg.firstSeen) {
			agg.firstSeen = b.CreatedAt
		}
	}

	routes := make([]*routeAgg, 0, len(byRoute))
	for _, agg := range byRoute {
		routes = append(routes, agg)
	}
	sort.Slice(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.firstSeen.Equal(b.firstSeen) {
			return a.firstSeen.Before(b.firstSeen)
		}
		if a.Pickup != b.Pickup {
			return a.Pickup < b.Pickup
		}
		return a.Dropoff < b.Dropoff
	})

	if k > len(routes) {
		k = len(routes)
	}
	out := make([]RouteCount, 0, k)
	for _, agg := range routes[:k] {
		out = append(out, agg.RouteCount)
	}
	return out, nil
}

// TotalEarnings sums cost over Completed bookings whose completion falls in
// the inclusive [start, end] date range. Both bounds are day-granular: the
// whole end day counts.
func (s *Service) TotalEarnings(ctx context.Context, start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	cutoff := end.AddDate(0, 0, 1)

	completed, err := s.ledger.List(ctx, booking.Filter{Status: booking.StatusCompleted})
	if err != nil {
		return 0, err
	}
	var total float64
	for _, b := range completed {
		if b.CompletedAt == nil {
			continue
		}
		at := *b.CompletedAt
		if !at.Before(start) && at.Before(cutoff) {
			total += b.EstimatedCost
		}
	}
	return total, nil
}

func bucketKey(t time.Time, bucket Bucket) string {
	switch bucket {
	case BucketMonthly:
		return t.UTC().Format("2006-01")
	default:
		return t.UTC().Format("2006-01-02")
	}
}
