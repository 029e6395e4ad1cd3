package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService   services.EventService
	bookingService services.BookingService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService, bookingService services.BookingService) *EventHandler {
	return &EventHandler{BaseHandler: base, eventService: eventService, bookingService: bookingService}
}

func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.GET("", h.BrowseEvents)
		events.GET("/:id", h.GetEvent)

		host := events.Group("")
		host.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleHost))
		{
			host.POST("", h.CreateEvent)
			host.PUT("/:id", h.UpdateEvent)
			host.POST("/:id/publish", h.PublishEvent)
			host.POST("/:id/cancel", h.CancelEvent)
			host.GET("/my/list", h.ListMyEvents)
			host.POST("/checkin", h.CheckInTicket)
		}
	}
}

func (h *EventHandler) BrowseEvents(c *gin.Context) {
	limit, offset := ParsePagination(c)
	events, err := h.eventService.BrowseEvents(h.GetDB(c), c.Query("city"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(h.GetDB(c), hostID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(h.GetDB(c), hostID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) PublishEvent(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.PublishEvent(h.GetDB(c), hostID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event published"})
}

func (h *EventHandler) CancelEvent(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.CancelEvent(h.GetDB(c), hostID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event cancelled"})
}

func (h *EventHandler) ListMyEvents(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListMyEvents(h.GetDB(c), hostID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type checkInRequest struct {
	TicketCode string `json:"ticket_code" validate:"required,len=8"`
}

func (h *EventHandler) CheckInTicket(c *gin.Context) {
	hostID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req checkInRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.VerifyTicket(h.GetDB(c), hostID, req.TicketCode)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket checked in",
		"booking": booking,
	})
}
