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
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

func newResidencyHandlerFixture() (*handlers.ResidencyHandler, *MockResidencyService, *MockUserService, *MockS3Storage, *MockImageQueue) {
	mockResidencySvc := new(MockResidencyService)
	mockUserSvc := new(MockUserService)
	mockStorage := new(MockS3Storage)
	mockQueue := new(MockImageQueue)
	handler := handlers.NewResidencyHandler(mockResidencySvc, mockUserSvc, mockStorage, mockQueue)
	return handler, mockResidencySvc, mockUserSvc, mockStorage, mockQueue
}

func TestResidencyHandler_Create_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, mockUserSvc, _, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.POST("/v1/residency", asUser("owner@example.com"), handler.Create)

	owner := &models.User{Email: "owner@example.com"}
	owner.SetID(utils.NewSixID())
	mockUserSvc.On("FindByEmail", mock.Anything, "owner@example.com").Return(owner, nil)
	mockResidencySvc.On("Create", mock.Anything, mock.MatchedBy(func(res *models.Residency) bool {
		return res.Title == "Sea View Flat" && res.OwnerID == owner.ID
	})).Return(&models.Residency{Title: "Sea View Flat"}, nil)

	body := `{"title":"Sea View Flat","price":250000,"address":"1 Ocean Rd","city":"Lisbon","country":"Portugal","property_type":"sale"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/residency", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockResidencySvc.AssertExpectations(t)
	mockUserSvc.AssertExpectations(t)
}

func TestResidencyHandler_Create_DuplicateAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, mockUserSvc, _, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.POST("/v1/residency", asUser("owner@example.com"), handler.Create)

	owner := &models.User{Email: "owner@example.com"}
	owner.SetID(utils.NewSixID())
	mockUserSvc.On("FindByEmail", mock.Anything, "owner@example.com").Return(owner, nil)
	mockResidencySvc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrResidencyExists)

	body := `{"title":"Sea View Flat","price":250000,"address":"1 Ocean Rd","city":"Lisbon","country":"Portugal","property_type":"sale"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/residency", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestResidencyHandler_Create_InvalidPropertyType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, _, _, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.POST("/v1/residency", asUser("owner@example.com"), handler.Create)

	body := `{"title":"Sea View Flat","price":250000,"address":"1 Ocean Rd","city":"Lisbon","country":"Portugal","property_type":"timeshare"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/residency", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockResidencySvc.AssertNotCalled(t, "Create")
}

func TestResidencyHandler_GetByID_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, _, _, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.GET("/v1/residency/:id", handler.GetByID)

	residencyID := utils.NewSixID()
	mockResidencySvc.On("FindByID", mock.Anything, residencyID).Return(nil, services.ErrResidencyNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/residency/"+residencyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResidencyHandler_Delete_PartialCascade(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, _, _, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.DELETE("/v1/residency/:id", asUser("owner@example.com"), handler.Delete)

	residencyID := utils.NewSixID()
	mockResidencySvc.On("Delete", mock.Anything, residencyID, "owner@example.com").
		Return(services.ErrPartialCascade)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/residency/"+residencyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var respBody map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Contains(t, respBody["error"], "retry")
	mockResidencySvc.AssertExpectations(t)
}

func TestResidencyHandler_RequestImageUpload_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, mockUserSvc, mockStorage, mockQueue := newResidencyHandlerFixture()

	r := gin.New()
	r.POST("/v1/residency/:id/images", asUser("owner@example.com"), handler.RequestImageUpload)

	owner := &models.User{Email: "owner@example.com"}
	owner.SetID(utils.NewSixID())
	residencyID := utils.NewSixID()
	residency := &models.Residency{OwnerID: owner.ID}
	residency.SetID(residencyID)

	mockUserSvc.On("FindByEmail", mock.Anything, "owner@example.com").Return(owner, nil)
	mockResidencySvc.On("FindByID", mock.Anything, residencyID).Return(residency, nil)
	mockStorage.On("GeneratePresignedPutURL", mock.Anything, owner.ID.String(), residencyID.String(), "front.jpg", "image/jpeg").
		Return("https://s3.example.com/upload", "residencies/key", nil)
	mockQueue.On("EnqueueImageProcess", mock.Anything, "residencies/key", residencyID).Return(nil)

	body := `{"filename":"front.jpg","content_type":"image/jpeg"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/residency/"+residencyID.String()+"/images", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/upload", respBody["upload_url"])
	assert.Equal(t, "residencies/key", respBody["s3_key"])
	mockQueue.AssertExpectations(t)
}

func TestResidencyHandler_RequestImageUpload_NotOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockResidencySvc, mockUserSvc, mockStorage, _ := newResidencyHandlerFixture()

	r := gin.New()
	r.POST("/v1/residency/:id/images", asUser("stranger@example.com"), handler.RequestImageUpload)

	stranger := &models.User{Email: "stranger@example.com"}
	stranger.SetID(utils.NewSixID())
	residencyID := utils.NewSixID()
	residency := &models.Residency{OwnerID: utils.NewSixID()}
	residency.SetID(residencyID)

	mockUserSvc.On("FindByEmail", mock.Anything, "stranger@example.com").Return(stranger, nil)
	mockResidencySvc.On("FindByID", mock.Anything, residencyID).Return(residency, nil)

	body := `{"filename":"front.jpg","content_type":"image/jpeg"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/residency/"+residencyID.String()+"/images", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockStorage.AssertNotCalled(t, "GeneratePresignedPutURL")
}
