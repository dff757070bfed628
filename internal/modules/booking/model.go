// README: Booking aggregate, mirrored driver, and status definitions.
package booking

import (
	"time"

	"cargolink/internal/modules/pricing"
	"cargolink/internal/types"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusCompleted Status = "Completed"
)

type Booking struct {
	ID              types.ID
	PickupAddress   string
	DropoffAddress  string
	PickupLocation  types.Point
	DropoffLocation types.Point
	VehicleType     pricing.VehicleType
	DistanceKm      float64
	EstimatedCost   float64
	Status          Status
	DriverID        *types.ID
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// Driver mirrors the identity collaborator's driver inside the ledger.
// Only the id and the cumulative earnings live here; Available/Busy is
// derived from whether an Accepted booking references the driver.
type Driver struct {
	ID            types.ID
	EarningsTotal float64
}

// AllowedTransitions represents the booking state flow as code.
// Pending → Accepted → Completed; Completed is terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted},
	StatusAccepted: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted:
		return true
	}
	return false
}
