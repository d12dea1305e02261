package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/auth"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/config"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
)

// AuthHandler handles login for identity-provider authenticated users.
type AuthHandler struct {
	cfg         *config.Config
	userService services.IUserService
}

func NewAuthHandler(cfg *config.Config, userService services.IUserService) *AuthHandler {
	return &AuthHandler{cfg: cfg, userService: userService}
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Login handles POST /v1/auth/login. The first login for an email creates
// the user document; later logins return the existing one.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterIfAbsent(c.Request.Context(), req.Email, req.Name, req.Image)
	if err != nil {
		respondServiceError(c, err, "Failed to log in")
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.IsAdmin, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
