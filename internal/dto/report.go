package dto

import (
	"path/filepath"
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
)

// ReportDTO represents an exported report
type ReportDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Scope     string    `json:"scope"`
	CreatedBy uint64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	FileName  string    `json:"file_name"`
}

// ReportListResponse represents a paginated list of reports
type ReportListResponse struct {
	Reports    []ReportDTO              `json:"reports"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToReportDTO converts a Report model to ReportDTO. The server side path is
// reduced to its base name.
func ToReportDTO(report models.Report) ReportDTO {
	return ReportDTO{
		ID:        report.ID,
		Name:      report.ReportName,
		Type:      report.ReportType,
		Scope:     report.ReportScope,
		CreatedBy: report.CreatedBy,
		CreatedAt: report.CreatedAt,
		FileName:  filepath.Base(report.ExportedFile),
	}
}

// ToReportListResponse converts a page of reports
func ToReportListResponse(reports []models.Report, params utils.PaginationParams, total int64) ReportListResponse {
	items := make([]ReportDTO, len(reports))
	for i, report := range reports {
		items[i] = ToReportDTO(report)
	}
	return ReportListResponse{
		Reports:    items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
