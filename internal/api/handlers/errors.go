package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
)

// respondServiceError maps service errors onto HTTP statuses. Unknown errors
// are recorded on the Gin context and reported as a 500 without leaking
// internals.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrResidencyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Residency not found"})
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, services.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{"error": "Residency is already booked by you"})
	case errors.Is(err, services.ErrResidencyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A residency with this address already exists for this owner"})
	case errors.Is(err, services.ErrPartialCascade):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Deletion incomplete, please retry"})
	case errors.Is(err, store.ErrTimeout):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
