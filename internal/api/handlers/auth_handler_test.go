package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/handlers"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/auth"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/config"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	handler := handlers.NewAuthHandler(cfg, mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	user := &models.User{Email: "ana@example.com", Name: "Ana"}
	user.SetID(utils.NewSixID())
	mockUserSvc.On("RegisterIfAbsent", mock.Anything, "ana@example.com", "Ana", "").Return(user, nil)

	body := `{"email":"ana@example.com","name":"Ana"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", respBody.User.Email)

	claims, err := auth.ValidateJWT(respBody.Token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	handler := handlers.NewAuthHandler(cfg, mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserSvc.AssertNotCalled(t, "RegisterIfAbsent")
}
