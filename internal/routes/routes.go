package routes

import (
	"net/http"

	"festmatch_backend/internal/handlers"
	"festmatch_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter builds the engine with global middleware, the health probe and
// every handler mounted under /api/v1.
func SetupRouter(db *gorm.DB, h *handlers.AppHandlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(api)
		h.Payout.RegisterRoutes(api)
		h.Subscription.RegisterRoutes(api)
		h.Kyc.RegisterRoutes(api)
		h.Report.RegisterRoutes(api)
		h.Event.RegisterRoutes(api)
		h.Booking.RegisterRoutes(api)
		h.BankAccount.RegisterRoutes(api)
	}

	return router
}
