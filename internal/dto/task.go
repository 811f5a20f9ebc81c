package dto

import (
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
)

// TaskAssigneeDTO represents the assignee of a task
type TaskAssigneeDTO struct {
	User       *UserRefDTO `json:"user,omitempty"`
	UserID     uint64      `json:"user_id"`
	AssignedAt time.Time   `json:"assigned_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	ProjectID   uint64              `json:"project_id"`
	TeamID      *uint64             `json:"team_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	StartDate   *time.Time          `json:"start_date"`
	EndDate     *time.Time          `json:"end_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	ProjectName string              `json:"project_name,omitempty"`
	TeamName    string              `json:"team_name,omitempty"`
	Assignee    *TaskAssigneeDTO    `json:"assignee,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TaskActivityDTO represents one audit entry of a task
type TaskActivityDTO struct {
	ID           uint64              `json:"id"`
	TaskID       uint64              `json:"task_id"`
	UserID       uint64              `json:"user_id"`
	ActivityType models.ActivityType `json:"activity_type"`
	Description  string              `json:"description"`
	CreatedAt    time.Time           `json:"created_at"`
}

// GeneratedTaskDTO represents an AI task draft
type GeneratedTaskDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	StartDate   *time.Time          `json:"start_date"`
	EndDate     *time.Time          `json:"end_date"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		TeamID:      task.TeamID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.Project != nil {
		dto.ProjectName = task.Project.ProjectName
	}
	if task.Team != nil {
		dto.TeamName = task.Team.TeamName
	}
	if task.Assignment != nil {
		assignee := &TaskAssigneeDTO{
			UserID:     task.Assignment.UserID,
			AssignedAt: task.Assignment.AssignedAt,
		}
		if task.Assignment.User != nil {
			user := ToUserRefDTO(*task.Assignment.User)
			assignee.User = &user
		}
		dto.Assignee = assignee
	}

	return dto
}

// ToTaskListResponse converts a page of tasks
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return TaskListResponse{
		Tasks:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToTaskActivityDTOs converts activity rows
func ToTaskActivityDTOs(activities []models.TaskActivity) []TaskActivityDTO {
	items := make([]TaskActivityDTO, len(activities))
	for i, a := range activities {
		items[i] = TaskActivityDTO{
			ID:           a.ID,
			TaskID:       a.TaskID,
			UserID:       a.UserID,
			ActivityType: a.ActivityType,
			Description:  a.Description,
			CreatedAt:    a.CreatedAt,
		}
	}
	return items
}

// ToGeneratedTaskDTOs converts AI drafts
func ToGeneratedTaskDTOs(drafts []services.GeneratedTask) []GeneratedTaskDTO {
	items := make([]GeneratedTaskDTO, len(drafts))
	for i, d := range drafts {
		items[i] = GeneratedTaskDTO{
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
		}
	}
	return items
}
