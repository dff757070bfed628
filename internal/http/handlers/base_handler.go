// README: Shared JSON helpers and error mapping for handlers.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargolink/internal/modules/booking"
	"cargolink/internal/modules/stats"
	"cargolink/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeBookingError maps domain errors to response codes. Conflict-class
// errors mean a retry against the same booking is pointless; a 502 route
// failure may succeed on retry.
func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation), errors.Is(err, stats.ErrInvalidRange):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrAlreadyClaimed),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrNotAssignedDriver):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrRouteUnavailable):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// bookingJSON is the wire shape of a booking; field names follow the
// existing client contract.
type bookingJSON struct {
	ID              types.ID    `json:"id"`
	PickupAddress   string      `json:"pickupAddress"`
	DropoffAddress  string      `json:"dropoffAddress"`
	PickupLocation  types.Point `json:"pickupLocation"`
	DropoffLocation types.Point `json:"dropoffLocation"`
	VehicleType     string      `json:"vehicleType"`
	DistanceKm      float64     `json:"distanceKm"`
	EstimatedCost   float64     `json:"estimatedCost"`
	Status          string      `json:"status"`
	DriverID        *types.ID   `json:"driverId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
}

func toBookingJSON(b *booking.Booking) bookingJSON {
	return bookingJSON{
		ID:              b.ID,
		PickupAddress:   b.PickupAddress,
		DropoffAddress:  b.DropoffAddress,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		VehicleType:     string(b.VehicleType),
		DistanceKm:      b.DistanceKm,
		EstimatedCost:   b.EstimatedCost,
		Status:          string(b.Status),
		DriverID:        b.DriverID,
		CreatedAt:       b.CreatedAt,
		CompletedAt:     b.CompletedAt,
	}
}

func toBookingListJSON(bs []booking.Booking) []bookingJSON {
	out := make([]bookingJSON, 0, len(bs))
	for i := range bs {
		out = append(out, toBookingJSON(&bs[i]))
	}
	return out
}
