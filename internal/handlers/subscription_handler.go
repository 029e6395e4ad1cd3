package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{BaseHandler: base, subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/packages", h.ListPackages)

	subs := rg.Group("/subscriptions")
	{
		// Gateway callback, no auth: the order id only identifies the
		// payment, the service confirms it against the gateway.
		subs.POST("/payments/verify", h.VerifyPayment)

		authed := subs.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/purchase", h.PurchasePackage)
			authed.POST("/payments", h.CreateCheckout)
			authed.GET("/payments/my", h.ListMyPayments)
		}
	}

	admin := rg.Group("/admin/packages")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllPackages)
		admin.POST("", h.CreatePackage)
		admin.PUT("/:id", h.UpdatePackage)
		admin.DELETE("/:id", h.DeletePackage)
	}
}

func (h *SubscriptionHandler) ListPackages(c *gin.Context) {
	packages, err := h.subscriptionService.ListVisiblePackages(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

type purchaseRequest struct {
	PackageID string `json:"package_id" validate:"required,uuid"`
}

func (h *SubscriptionHandler) PurchasePackage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req purchaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.subscriptionService.PurchasePackage(h.GetDB(c), userID, req.PackageID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req purchaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.subscriptionService.CreateCheckout(h.GetDB(c), userID, req.PackageID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

type verifyPaymentRequest struct {
	OrderID           string `json:"order_id" validate:"required"`
	CashfreePaymentID string `json:"cf_payment_id" validate:"required"`
}

func (h *SubscriptionHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.subscriptionService.VerifyPayment(h.GetDB(c), req.OrderID, req.CashfreePaymentID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified"})
}

func (h *SubscriptionHandler) ListMyPayments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payments, err := h.subscriptionService.ListMyPayments(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *SubscriptionHandler) ListAllPackages(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	packages, err := h.subscriptionService.ListAllPackages(h.GetDB(c), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (h *SubscriptionHandler) CreatePackage(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.CreatePackageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	pkg, err := h.subscriptionService.CreatePackage(h.GetDB(c), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *SubscriptionHandler) UpdatePackage(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePackageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	pkg, err := h.subscriptionService.UpdatePackage(h.GetDB(c), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *SubscriptionHandler) DeletePackage(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.DeletePackage(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted"})
}
