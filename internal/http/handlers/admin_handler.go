// README: Admin read surface over the aggregation engine.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cargolink/internal/modules/booking"
	"cargolink/internal/modules/stats"
)

type AdminHandler struct {
	stats *stats.Service
}

func NewAdminHandler(svc *stats.Service) *AdminHandler {
	return &AdminHandler{stats: svc}
}

func (h *AdminHandler) BookingStats(c *gin.Context) {
	hist, err := h.stats.StatusHistogram(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	type statusCount struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	statuses := make([]statusCount, 0, len(hist))
	for _, s := range []booking.Status{booking.StatusPending, booking.StatusAccepted, booking.StatusCompleted} {
		statuses = append(statuses, statusCount{Status: string(s), Count: hist[s]})
	}
	writeJSON(c, http.StatusOK, gin.H{"statuses": statuses})
}

func (h *AdminHandler) DriverStats(c *gin.Context) {
	act, err := h.stats.DriverActivity(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, act)
}

func (h *AdminHandler) BookingTrends(c *gin.Context) {
	points, err := h.stats.BookingTrend(c.Request.Context(), stats.Bucket(c.DefaultQuery("bucket", string(stats.BucketDaily))))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	dates := make([]string, 0, len(points))
	counts := make([]int, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		counts = append(counts, p.Count)
	}
	writeJSON(c, http.StatusOK, gin.H{"dates": dates, "counts": counts})
}

func (h *AdminHandler) RevenueStats(c *gin.Context) {
	points, err := h.stats.RevenueTrend(c.Request.Context(), stats.Bucket(c.DefaultQuery("bucket", string(stats.BucketDaily))))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	dates := make([]string, 0, len(points))
	amounts := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		amounts = append(amounts, p.Amount)
	}
	writeJSON(c, http.StatusOK, gin.H{"dates": dates, "amounts": amounts})
}

func (h *AdminHandler) AverageRevenue(c *gin.Context) {
	avg, err := h.stats.AverageRevenue(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"avgRevenue": avg})
}

func (h *AdminHandler) TopRoutes(c *gin.Context) {
	k := 0
	if v := c.Query("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid k")
			return
		}
		k = n
	}
	routes, err := h.stats.TopRoutes(c.Request.Context(), k)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, routes)
}

func (h *AdminHandler) TotalEarnings(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid startDate")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid endDate")
		return
	}
	total, err := h.stats.TotalEarnings(c.Request.Context(), start, end)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"totalAmount": total})
}
