package dto

import (
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartDate   *time.Time  `json:"start_date"`
	EndDate     *time.Time  `json:"end_date"`
	ManagerID   uint64      `json:"manager_id"`
	Manager     *UserRefDTO `json:"manager,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.ProjectName,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		ManagerID:   project.ManagerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if project.Manager != nil {
		manager := ToUserRefDTO(*project.Manager)
		dto.Manager = &manager
	}
	return dto
}

// ToProjectListResponse converts a page of projects
func ToProjectListResponse(projects []models.Project, params utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return ProjectListResponse{
		Projects:   items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
