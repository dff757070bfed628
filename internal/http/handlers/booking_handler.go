// README: Shipper-facing booking handlers for create/list/get.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink/internal/modules/booking"
	"cargolink/internal/modules/pricing"
	"cargolink/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

// createBookingReq deliberately carries no cost field: the estimate is always
// recomputed server-side, whatever the client thinks the fare is.
type createBookingReq struct {
	PickupAddress   string      `json:"pickupAddress"`
	DropoffAddress  string      `json:"dropoffAddress"`
	PickupLocation  types.Point `json:"pickupLocation"`
	DropoffLocation types.Point `json:"dropoffLocation"`
	VehicleType     string      `json:"vehicleType"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.booking.CreateBooking(c.Request.Context(), booking.CreateCommand{
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Pickup:         req.PickupLocation,
		Dropoff:        req.DropoffLocation,
		VehicleType:    pricing.VehicleType(req.VehicleType),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toBookingJSON(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	f := booking.Filter{Status: booking.Status(c.Query("status"))}
	bs, err := h.booking.List(c.Request.Context(), f)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBookingListJSON(bs))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing booking id")
		return
	}
	b, err := h.booking.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBookingJSON(b))
}
