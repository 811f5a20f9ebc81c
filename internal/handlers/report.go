package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/dto"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ListReports returns previously exported reports, newest first
func (h *ReportHandler) ListReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.ListReports(c.Request.Context(), params)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports, params, total))
}

// ProjectSummary returns per-project task counts without writing a file
func (h *ReportHandler) ProjectSummary(c *gin.Context) {
	projectIDs, err := parseUintList(c.Query("project_ids"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project_ids")
		return
	}

	summaries, err := h.reportService.BuildProjectSummary(c.Request.Context(), projectIDs)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": summaries,
	})
}

// ExportReport writes a project summary workbook and records it
func (h *ReportHandler) ExportReport(c *gin.Context) {
	type ExportRequest struct {
		Name       string   `json:"name" binding:"required,max=255"`
		ProjectIDs []uint64 `json:"project_ids"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.Export(c.Request.Context(), services.ExportInput{
		Name:       req.Name,
		ProjectIDs: req.ProjectIDs,
		ActorID:    userID,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReportDTO(*report))
}

// DownloadReport streams the workbook of a report
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	reportID, ok := parseIDParam(c, "id", "report ID")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.FileAttachment(report.ExportedFile, filepath.Base(report.ExportedFile))
}

// DeleteReport removes a report and its file
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	reportID, ok := parseIDParam(c, "id", "report ID")
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), reportID); err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report deleted successfully",
	})
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrReportNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		respondUnexpected(c, err)
	}
}
