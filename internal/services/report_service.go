package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/projectdesk/projectdesk/internal/constants"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	ReportTypeProjectSummary = "project_summary"

	summarySheet  = "Summary"
	activitySheet = "Activity"
	dateLayout    = "2006-01-02"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrReportNameRequired = errors.New("report name is required")
)

// ProjectSummary is one row of the project summary report
type ProjectSummary struct {
	ProjectID   uint64     `json:"project_id"`
	ProjectName string     `json:"project_name"`
	Manager     string     `json:"manager"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Todo        int64      `json:"todo"`
	InProgress  int64      `json:"in_progress"`
	Done        int64      `json:"done"`
	Total       int64      `json:"total"`
	Teams       int        `json:"teams"`
	Members     int        `json:"members"`
}

// ReportService builds summaries and exports them as XLSX workbooks
type ReportService struct {
	projectRepo  repository.ProjectRepository
	taskRepo     repository.TaskRepository
	teamRepo     repository.TeamRepository
	activityRepo repository.ActivityRepository
	reportRepo   repository.ReportRepository
	outputDir    string
}

// NewReportService creates a new ReportService writing files to outputDir
func NewReportService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	teamRepo repository.TeamRepository,
	activityRepo repository.ActivityRepository,
	reportRepo repository.ReportRepository,
	outputDir string,
) *ReportService {
	return &ReportService{
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		teamRepo:     teamRepo,
		activityRepo: activityRepo,
		reportRepo:   reportRepo,
		outputDir:    outputDir,
	}
}

// ExportInput represents a request to export a report
type ExportInput struct {
	Name string
	// ProjectIDs restricts the report; empty means every project
	ProjectIDs []uint64
	ActorID    uint64
}

// BuildProjectSummary returns one summary row per project
func (s *ReportService) BuildProjectSummary(ctx context.Context, projectIDs []uint64) ([]ProjectSummary, error) {
	projects, err := s.loadProjects(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []ProjectSummary{}, nil
	}

	ids := make([]uint64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	counts, err := s.taskRepo.CountByProjectAndStatus(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	index := make(map[uint64]int, len(projects))
	for _, p := range projects {
		summary := ProjectSummary{
			ProjectID:   p.ID,
			ProjectName: p.ProjectName,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
		}
		if p.Manager != nil {
			summary.Manager = p.Manager.FullName()
		}

		teams, err := s.teamRepo.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		members := make(map[uint64]struct{})
		for _, team := range teams {
			teamMembers, err := s.teamRepo.ListMembers(ctx, team.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to list members: %w", err)
			}
			for _, m := range teamMembers {
				members[m.UserID] = struct{}{}
			}
		}
		summary.Teams = len(teams)
		summary.Members = len(members)

		index[p.ID] = len(summaries)
		summaries = append(summaries, summary)
	}

	for _, c := range counts {
		i, ok := index[c.ProjectID]
		if !ok {
			continue
		}
		switch c.Status {
		case models.TaskStatusTodo:
			summaries[i].Todo += c.Count
		case models.TaskStatusInProgress:
			summaries[i].InProgress += c.Count
		case models.TaskStatusDone:
			summaries[i].Done += c.Count
		}
		summaries[i].Total += c.Count
	}

	return summaries, nil
}

// Export writes the project summary and recent activity to an XLSX file and
// records it as a report.
func (s *ReportService) Export(ctx context.Context, input ExportInput) (*models.Report, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrReportNameRequired
	}

	summaries, err := s.BuildProjectSummary(ctx, input.ProjectIDs)
	if err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.ListRecent(ctx, constants.RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(s.outputDir, fmt.Sprintf("report-%d-%s.xlsx",
		input.ActorID, time.Now().Format("20060102-150405.000000")))

	if err := writeWorkbook(path, summaries, activities); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	report := &models.Report{
		ReportName:   name,
		ReportType:   ReportTypeProjectSummary,
		ReportScope:  reportScope(input.ProjectIDs),
		CreatedBy:    input.ActorID,
		ExportedFile: path,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned report file", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to record report: %w", err)
	}

	slog.InfoContext(ctx, "report exported",
		"report_id", report.ID, "projects", len(summaries), "actor_id", input.ActorID)
	return report, nil
}

// ListReports returns a page of exported reports
func (s *ReportService) ListReports(ctx context.Context, page utils.PaginationParams) ([]models.Report, int64, error) {
	reports, total, err := s.reportRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// GetReport returns a report record
func (s *ReportService) GetReport(ctx context.Context, id uint64) (*models.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return report, nil
}

// DeleteReport removes the record and its file
func (s *ReportService) DeleteReport(ctx context.Context, id uint64) error {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.reportRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if !deleted {
		return ErrReportNotFound
	}

	if report.ExportedFile != "" {
		if err := os.Remove(report.ExportedFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(ctx, "failed to remove report file", "path", report.ExportedFile, "error", err)
		}
	}
	return nil
}

func (s *ReportService) loadProjects(ctx context.Context, projectIDs []uint64) ([]models.Project, error) {
	if len(projectIDs) == 0 {
		projects, _, err := s.projectRepo.List(ctx, repository.ProjectFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, nil
	}

	projects := make([]models.Project, 0, len(projectIDs))
	seen := make(map[uint64]bool, len(projectIDs))
	for _, id := range projectIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		project, err := s.projectRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

func writeWorkbook(path string, summaries []ProjectSummary, activities []models.TaskActivity) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(activitySheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summaryHeader := []any{"Project ID", "Project", "Manager", "Start", "End", "To do", "In progress", "Done", "Total", "Teams", "Members"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "K1", header); err != nil {
		return err
	}
	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.ProjectID, s.ProjectName, s.Manager, formatDate(s.StartDate), formatDate(s.EndDate),
			s.Todo, s.InProgress, s.Done, s.Total, s.Teams, s.Members}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "B", "C", 28); err != nil {
		return err
	}

	activityHeader := []any{"Time", "Task ID", "User ID", "Type", "Description"}
	if err := f.SetSheetRow(activitySheet, "A1", &activityHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(activitySheet, "A1", "E1", header); err != nil {
		return err
	}
	for i, a := range activities {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{a.CreatedAt.Format(time.RFC3339), a.TaskID, a.UserID, string(a.ActivityType), a.Description}
		if err := f.SetSheetRow(activitySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func reportScope(projectIDs []uint64) string {
	if len(projectIDs) == 0 {
		return "all"
	}
	ids := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	scope := "projects:" + strings.Join(ids, ",")
	if len(scope) > 100 {
		scope = scope[:97] + "..."
	}
	return scope
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
