package handlers

import (
	"net/http"

	"festmatch_backend/internal/middleware"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.POST("", h.FileReport)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/reports", h.ListReports)
		admin.POST("/reports/:id/review", h.ReviewReport)
		admin.POST("/hosts/:id/block", h.BlockHost)
	}
}

func (h *ReportHandler) FileReport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.FileReportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	report, err := h.reportService.FileReport(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status := models.ReportStatus(c.DefaultQuery("status", string(models.ReportStatusPending)))
	limit, offset := ParsePagination(c)

	reports, err := h.reportService.ListReports(h.GetDB(c), adminID, status, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) ReviewReport(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req services.ReviewReportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.reportService.ReviewReport(h.GetDB(c), adminID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report reviewed"})
}

func (h *ReportHandler) BlockHost(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reportService.BlockHost(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Host blocked"})
}
