package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/middleware"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// UserHandler handles the authenticated user's favorite and booking routes.
type UserHandler struct {
	userService services.IUserService
}

func NewUserHandler(userService services.IUserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// callerEmail returns the authenticated email set by the auth middleware.
func callerEmail(c *gin.Context) (string, bool) {
	email := c.GetString(middleware.ContextKeyEmail)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return "", false
	}
	return email, true
}

func residencyIDParam(c *gin.Context) (utils.SixID, bool) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid residency ID format"})
		return utils.SixID{}, false
	}
	return id, true
}

// ToggleFavorite handles POST /v1/user/favorite/:id.
func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	favorites, err := h.userService.ToggleFavorite(c.Request.Context(), email, residencyID)
	if err != nil {
		respondServiceError(c, err, "Failed to update favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite_residency_ids": favorites})
}

type bookVisitRequest struct {
	VisitDate string `json:"visit_date" binding:"required"`
}

// BookVisit handles POST /v1/user/book/:id.
func (h *UserHandler) BookVisit(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	var req bookVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.userService.BookVisit(c.Request.Context(), email, residencyID, req.VisitDate); err != nil {
		respondServiceError(c, err, "Failed to book visit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit booked successfully"})
}

// CancelBooking handles POST /v1/user/cancel/:id.
func (h *UserHandler) CancelBooking(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.CancelBooking(c.Request.Context(), email, residencyID); err != nil {
		respondServiceError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// GetFavorites handles GET /v1/user/favorites.
func (h *UserHandler) GetFavorites(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	favorites, err := h.userService.GetFavorites(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err, "Failed to load favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": favorites})
}

// GetBookings handles GET /v1/user/bookings.
func (h *UserHandler) GetBookings(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	bookings, err := h.userService.GetBookings(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}
