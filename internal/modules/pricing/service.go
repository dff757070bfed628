// README: Pricing service computes the fare estimate for a booking.
package pricing

import (
	"context"
	"errors"
)

var (
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
	ErrNegativeDistance   = errors.New("negative distance")
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Estimate returns distanceKm * rate(vehicleType). The result is stored once
// on the booking at creation time; display rounding is a client concern.
func (s *Service) Estimate(ctx context.Context, vehicleType VehicleType, distanceKm float64) (float64, error) {
	if distanceKm < 0 {
		return 0, ErrNegativeDistance
	}
	rate, ok := ratePerKm[vehicleType]
	if !ok {
		return 0, ErrInvalidVehicleType
	}
	return distanceKm * rate, nil
}
