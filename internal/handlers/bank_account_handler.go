package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BankAccountHandler struct {
	*BaseHandler
	bankAccountService services.BankAccountService
}

func NewBankAccountHandler(base *BaseHandler, bankAccountService services.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{BaseHandler: base, bankAccountService: bankAccountService}
}

func (h *BankAccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/bank-accounts")
	accounts.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleReferrer))
	{
		accounts.POST("", h.AddBankAccount)
		accounts.GET("", h.ListBankAccounts)
		accounts.DELETE("/:id", h.RemoveBankAccount)
	}
}

func (h *BankAccountHandler) AddBankAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.AddBankAccountRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	account, err := h.bankAccountService.AddBankAccount(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *BankAccountHandler) ListBankAccounts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	accounts, err := h.bankAccountService.ListBankAccounts(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank_accounts": accounts})
}

func (h *BankAccountHandler) RemoveBankAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.bankAccountService.RemoveBankAccount(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bank account removed"})
}
