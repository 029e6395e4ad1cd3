package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/services"
	"festmatch_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{BaseHandler: base, bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", h.BookTickets)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.GET("/my", h.ListMyBookings)
	}
}

func (h *BookingHandler) BookTickets(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.BookTicketsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.BookTickets(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"booking":        booking,
		"display_amount": utils.FormatINR(booking.Amount),
	})
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	if err := h.bookingService.ConfirmBooking(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking confirmed"})
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListMyBookings(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
