package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"
	"festmatch_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	*BaseHandler
	payoutService services.PayoutService
}

func NewPayoutHandler(base *BaseHandler, payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{BaseHandler: base, payoutService: payoutService}
}

func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payouts := rg.Group("/payouts")
	payouts.Use(middleware.AuthMiddleware())
	{
		payouts.POST("", middleware.RequireRoles(models.UserRoleHost, models.UserRoleReferrer), h.RequestWithdrawal)
		payouts.GET("/my", h.ListMyPayouts)
	}

	wallet := rg.Group("/wallet")
	wallet.Use(middleware.AuthMiddleware())
	{
		wallet.GET("/transactions", h.ListWalletTransactions)
	}

	admin := rg.Group("/admin/payouts")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/pending", h.ListPendingPayouts)
		admin.POST("/:id/approve", h.ApprovePayout)
		admin.POST("/:id/reject", h.RejectPayout)
	}
}

func (h *PayoutHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.WithdrawalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	payout, err := h.payoutService.RequestWithdrawal(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payout":         payout,
		"display_amount": utils.FormatINR(payout.Amount),
	})
}

func (h *PayoutHandler) ListMyPayouts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payouts, err := h.payoutService.ListMyPayouts(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (h *PayoutHandler) ListWalletTransactions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	txs, err := h.payoutService.GetWalletStatement(h.GetDB(c), userID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *PayoutHandler) ListPendingPayouts(c *gin.Context) {
	limit, offset := ParsePagination(c)

	payouts, err := h.payoutService.ListPendingPayouts(h.GetDB(c), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (h *PayoutHandler) ApprovePayout(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.payoutService.ApprovePayout(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payout approved"})
}

func (h *PayoutHandler) RejectPayout(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.payoutService.RejectPayout(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payout rejected"})
}
