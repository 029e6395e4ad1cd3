package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type KycHandler struct {
	*BaseHandler
	kycService services.KycService
}

func NewKycHandler(base *BaseHandler, kycService services.KycService) *KycHandler {
	return &KycHandler{BaseHandler: base, kycService: kycService}
}

func (h *KycHandler) RegisterRoutes(rg *gin.RouterGroup) {
	kyc := rg.Group("/kyc")
	kyc.Use(middleware.AuthMiddleware())
	{
		kyc.POST("/dating", h.SubmitDatingKyc)
		kyc.GET("/dating", h.GetDatingStatus)
		kyc.POST("/host", middleware.RequireRoles(models.UserRoleHost), h.SubmitHostKyc)
		kyc.GET("/host", middleware.RequireRoles(models.UserRoleHost), h.GetHostStatus)
	}

	admin := rg.Group("/admin/kyc")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/dating/pending", h.ListPendingDating)
		admin.POST("/dating/:id/approve", h.ApproveDating)
		admin.POST("/dating/:id/reject", h.RejectDating)
		admin.GET("/host/pending", h.ListPendingHost)
		admin.POST("/host/:id/approve", h.ApproveHost)
		admin.POST("/host/:id/reject", h.RejectHost)
	}
}

func (h *KycHandler) SubmitDatingKyc(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.DatingKycRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.kycService.SubmitDatingKyc(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *KycHandler) GetDatingStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.kycService.GetDatingStatus(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *KycHandler) SubmitHostKyc(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.HostKycRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.kycService.SubmitHostKyc(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *KycHandler) GetHostStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.kycService.GetHostStatus(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *KycHandler) ListPendingDating(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	records, err := h.kycService.ListPendingDating(h.GetDB(c), adminID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": records})
}

func (h *KycHandler) ListPendingHost(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	records, err := h.kycService.ListPendingHost(h.GetDB(c), adminID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": records})
}

type rejectKycRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=1000"`
}

func (h *KycHandler) ApproveDating(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.kycService.ReviewDatingKyc(h.GetDB(c), adminID, c.Param("id"), true, ""); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification approved"})
}

func (h *KycHandler) RejectDating(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req rejectKycRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.kycService.ReviewDatingKyc(h.GetDB(c), adminID, c.Param("id"), false, req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification rejected"})
}

func (h *KycHandler) ApproveHost(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.kycService.ReviewHostKyc(h.GetDB(c), adminID, c.Param("id"), true, ""); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification approved"})
}

func (h *KycHandler) RejectHost(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req rejectKycRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.kycService.ReviewHostKyc(h.GetDB(c), adminID, c.Param("id"), false, req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification rejected"})
}
