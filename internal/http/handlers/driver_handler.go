// README: Driver-facing handlers for claiming, completing, and earnings.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink/internal/modules/booking"
	"cargolink/internal/types"
)

type DriverHandler struct {
	booking *booking.Service
}

func NewDriverHandler(svc *booking.Service) *DriverHandler {
	return &DriverHandler{booking: svc}
}

type assignReq struct {
	DriverID       string       `json:"driverId"`
	DriverLocation *types.Point `json:"driverLocation"`
}

func (h *DriverHandler) Assign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing booking id")
		return
	}
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "missing driverId")
		return
	}
	b, err := h.booking.Claim(c.Request.Context(), booking.ClaimCommand{
		BookingID: types.ID(id),
		DriverID:  types.ID(req.DriverID),
		Location:  req.DriverLocation,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBookingJSON(b))
}

type completeReq struct {
	DriverID string `json:"driverId"`
}

func (h *DriverHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing booking id")
		return
	}
	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "missing driverId")
		return
	}
	b, err := h.booking.Complete(c.Request.Context(), booking.CompleteCommand{
		BookingID: types.ID(id),
		DriverID:  types.ID(req.DriverID),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBookingJSON(b))
}

func (h *DriverHandler) CompletedJobs(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	jobs, earnings, err := h.booking.CompletedByDriver(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"completedJobs": toBookingListJSON(jobs),
		"totalEarnings": earnings,
	})
}
