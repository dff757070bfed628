// README: Ledger backed by PostgreSQL. Claim and complete are guarded updates.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cargolink/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const bookingColumns = `
	id, pickup_address, dropoff_address,
	pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	vehicle_type, distance_km, estimated_cost,
	status, driver_id, created_at, completed_at`

func (s *PGStore) Create(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, pickup_address, dropoff_address,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			vehicle_type, distance_km, estimated_cost,
			status, driver_id, created_at, completed_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14
		)`,
		string(b.ID),
		b.PickupAddress,
		b.DropoffAddress,
		b.PickupLocation.Lat, b.PickupLocation.Lng,
		b.DropoffLocation.Lat, b.DropoffLocation.Lng,
		string(b.VehicleType),
		b.DistanceKm,
		b.EstimatedCost,
		string(b.Status),
		toStringPtr(b.DriverID),
		b.CreatedAt,
		b.CompletedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1`, string(id),
	)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *PGStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (s *PGStore) ListByDriver(ctx context.Context, driverID types.ID, status Status) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE driver_id = $1 AND status = $2
		ORDER BY created_at DESC`, string(driverID), string(status))
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ApplyClaim is the contested path: a single UPDATE guarded by the Pending
// state decides the winner, scoped to one row so claims on different
// bookings never contend. The driver row is mirrored in the same commit.
func (s *PGStore) ApplyClaim(ctx context.Context, id, driverID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $1, driver_id = $2
		WHERE id = $3 AND status = $4`,
		string(StatusAccepted),
		string(driverID),
		string(id),
		string(StatusPending),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO drivers (id, earnings_total)
		VALUES ($1, 0)
		ON CONFLICT (id) DO NOTHING`, string(driverID),
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyComplete flips Accepted → Completed and credits the fare to the
// driver in one transaction: the status change and the earnings credit are
// never observable apart.
func (s *PGStore) ApplyComplete(ctx context.Context, id, driverID types.ID, completedAt time.Time) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var cost float64
	err = tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = $1, completed_at = $2
		WHERE id = $3 AND status = $4 AND driver_id = $5
		RETURNING estimated_cost`,
		string(StatusCompleted),
		completedAt,
		string(id),
		string(StatusAccepted),
		string(driverID),
	).Scan(&cost)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE drivers
		SET earnings_total = earnings_total + $1
		WHERE id = $2`, cost, string(driverID),
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PGStore) GetDriver(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, earnings_total
		FROM drivers
		WHERE id = $1`, string(id),
	)
	var d Driver
	err := row.Scan(&d.ID, &d.EarningsTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PGStore) ListDrivers(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, earnings_total
		FROM drivers
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.EarningsTotal); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b        Booking
		driverID *string
	)
	err := row.Scan(
		&b.ID, &b.PickupAddress, &b.DropoffAddress,
		&b.PickupLocation.Lat, &b.PickupLocation.Lng,
		&b.DropoffLocation.Lat, &b.DropoffLocation.Lng,
		&b.VehicleType, &b.DistanceKm, &b.EstimatedCost,
		&b.Status, &driverID, &b.CreatedAt, &b.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if driverID != nil {
		d := types.ID(*driverID)
		b.DriverID = &d
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
