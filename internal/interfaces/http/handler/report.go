package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/storefront/backend/internal/application/report"
)

// ReportHandler handles sales reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Totals handles GET /api/total
func (h *ReportHandler) Totals(c *gin.Context) {
	totals, err := h.reportService.Totals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// SalesStats handles GET /api/sales-stats
func (h *ReportHandler) SalesStats(c *gin.Context) {
	stats, err := h.reportService.SalesStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
