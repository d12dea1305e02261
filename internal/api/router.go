package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/handlers"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api/middleware"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/config"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/storage"
)

// Deps bundles the initialized services the router wires into handlers.
type Deps struct {
	UserService      services.IUserService
	ResidencyService services.IResidencyService
	BookingView      services.IBookingViewService
	Storage          storage.IS3Storage
	ImageQueue       handlers.ImageEnqueuer
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Apply global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(cfg, deps.UserService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	residencyHandler := handlers.NewResidencyHandler(deps.ResidencyService, deps.UserService, deps.Storage, deps.ImageQueue)
	adminHandler := handlers.NewAdminHandler(deps.BookingView)

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/residency", residencyHandler.List)
		v1.GET("/residency/:id", residencyHandler.GetByID)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/user/favorite/:id", userHandler.ToggleFavorite)
			authRequired.POST("/user/book/:id", userHandler.BookVisit)
			authRequired.POST("/user/cancel/:id", userHandler.CancelBooking)
			authRequired.GET("/user/favorites", userHandler.GetFavorites)
			authRequired.GET("/user/bookings", userHandler.GetBookings)

			authRequired.POST("/residency", residencyHandler.Create)
			authRequired.PUT("/residency/:id", residencyHandler.Update)
			authRequired.DELETE("/residency/:id", residencyHandler.Delete)
			authRequired.POST("/residency/:id/images", residencyHandler.RequestImageUpload)
		}

		// Admin routes
		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware(deps.UserService))
		{
			adminRequired.GET("/bookings", adminHandler.ListAllBookings)
		}
	}

	return r
}
