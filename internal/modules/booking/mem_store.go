// README: In-process ledger with per-record locking; same contract as the pg store.
package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"cargolink/internal/types"
)

// MemStore keeps the ledger in process memory. Contention is scoped per
// booking record: the map lock is only held to locate records and to touch
// the driver roster, so claims on different bookings proceed in parallel.
type MemStore struct {
	mu       sync.RWMutex
	bookings map[types.ID]*memRecord
	drivers  map[types.ID]*Driver
}

type memRecord struct {
	mu sync.Mutex
	b  Booking
}

func NewMemStore() *MemStore {
	return &MemStore{
		bookings: make(map[types.ID]*memRecord),
		drivers:  make(map[types.ID]*Driver),
	}
}

func (s *MemStore) Create(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = &memRecord{b: *b}
	return nil
}

func (s *MemStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	rec, err := s.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	b := rec.b
	return &b, nil
}

func (s *MemStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	s.mu.RLock()
	recs := make([]*memRecord, 0, len(s.bookings))
	for _, rec := range s.bookings {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	out := make([]Booking, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		b := rec.b
		rec.mu.Unlock()
		if !f.Matches(&b) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) ListByDriver(ctx context.Context, driverID types.ID, status Status) ([]Booking, error) {
	all, err := s.List(ctx, Filter{Status: status})
	if err != nil {
		return nil, err
	}
	out := make([]Booking, 0, len(all))
	for _, b := range all {
		if b.DriverID != nil && *b.DriverID == driverID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemStore) ApplyClaim(ctx context.Context, id, driverID types.ID) (bool, error) {
	rec, err := s.record(id)
	if err != nil {
		return false, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.b.Status != StatusPending {
		return false, nil
	}
	d := driverID
	rec.b.Status = StatusAccepted
	rec.b.DriverID = &d

	s.mu.Lock()
	if _, ok := s.drivers[driverID]; !ok {
		s.drivers[driverID] = &Driver{ID: driverID}
	}
	s.mu.Unlock()
	return true, nil
}

func (s *MemStore) ApplyComplete(ctx context.Context, id, driverID types.ID, completedAt time.Time) (bool, error) {
	rec, err := s.record(id)
	if err != nil {
		return false, err
	}

	// The record lock is held across both the status flip and the earnings
	// credit so no reader observes one without the other.
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.b.Status != StatusAccepted || rec.b.DriverID == nil || *rec.b.DriverID != driverID {
		return false, nil
	}
	at := completedAt
	rec.b.Status = StatusCompleted
	rec.b.CompletedAt = &at

	s.mu.Lock()
	d, ok := s.drivers[driverID]
	if !ok {
		d = &Driver{ID: driverID}
		s.drivers[driverID] = d
	}
	d.EarningsTotal += rec.b.EstimatedCost
	s.mu.Unlock()
	return true, nil
}

func (s *MemStore) GetDriver(ctx context.Context, id types.ID) (*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := *d
	return &v, nil
}

func (s *MemStore) ListDrivers(ctx context.Context) ([]Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) record(id types.ID) (*memRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}
