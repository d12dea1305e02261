package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
)

// AdminHandler handles administrator-only routes.
type AdminHandler struct {
	bookingView services.IBookingViewService
}

func NewAdminHandler(bookingView services.IBookingViewService) *AdminHandler {
	return &AdminHandler{bookingView: bookingView}
}

// ListAllBookings handles GET /v1/admin/bookings: every booked visit across
// all users, newest visit date first.
func (h *AdminHandler) ListAllBookings(c *gin.Context) {
	rows, err := h.bookingView.ListAllBookings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
