package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/handlers"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/middleware"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// asUser injects the authenticated identity the way the auth middleware does.
func asUser(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyEmail, email)
		c.Next()
	}
}

func TestUserHandler_ToggleFavorite_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/favorite/:id", asUser("ana@example.com"), handler.ToggleFavorite)

	residencyID := utils.NewSixID()
	mockUserSvc.On("ToggleFavorite", mock.Anything, "ana@example.com", residencyID).
		Return([]utils.SixID{residencyID}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/favorite/"+residencyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string][]string
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Equal(t, []string{residencyID.String()}, respBody["favorite_residency_ids"])
	mockUserSvc.AssertExpectations(t)
}

func TestUserHandler_ToggleFavorite_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/favorite/:id", asUser("ana@example.com"), handler.ToggleFavorite)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/favorite/not-an-id", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserSvc.AssertNotCalled(t, "ToggleFavorite")
}

func TestUserHandler_BookVisit_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/book/:id", asUser("ana@example.com"), handler.BookVisit)

	residencyID := utils.NewSixID()
	mockUserSvc.On("BookVisit", mock.Anything, "ana@example.com", residencyID, "25/12/2026").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/book/"+residencyID.String(),
		strings.NewReader(`{"visit_date":"25/12/2026"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestUserHandler_BookVisit_Duplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/book/:id", asUser("ana@example.com"), handler.BookVisit)

	residencyID := utils.NewSixID()
	mockUserSvc.On("BookVisit", mock.Anything, "ana@example.com", residencyID, "25/12/2026").
		Return(services.ErrDuplicateBooking)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/book/"+residencyID.String(),
		strings.NewReader(`{"visit_date":"25/12/2026"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestUserHandler_BookVisit_MissingDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/book/:id", asUser("ana@example.com"), handler.BookVisit)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/book/"+utils.NewSixID().String(),
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserSvc.AssertNotCalled(t, "BookVisit")
}

func TestUserHandler_CancelBooking_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.POST("/v1/user/cancel/:id", asUser("ana@example.com"), handler.CancelBooking)

	residencyID := utils.NewSixID()
	mockUserSvc.On("CancelBooking", mock.Anything, "ana@example.com", residencyID).
		Return(services.ErrBookingNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/user/cancel/"+residencyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestUserHandler_GetBookings_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewUserHandler(mockUserSvc)

	r := gin.New()
	r.GET("/v1/user/bookings", asUser("ana@example.com"), handler.GetBookings)

	residencyID := utils.NewSixID()
	mockUserSvc.On("GetBookings", mock.Anything, "ana@example.com").
		Return([]models.BookedVisit{{ResidencyID: residencyID, VisitDate: "25/12/2026"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/user/bookings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody struct {
		Data []models.BookedVisit `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Len(t, respBody.Data, 1)
	assert.Equal(t, "25/12/2026", respBody.Data[0].VisitDate)
	mockUserSvc.AssertExpectations(t)
}
