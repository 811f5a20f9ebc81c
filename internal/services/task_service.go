package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/projectdesk/projectdesk/internal/constants"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to delete this task")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidPriority        = errors.New("invalid task priority")
	ErrTeamProjectMismatch    = errors.New("team belongs to a different project")
	ErrAssigneeNotFound       = errors.New("assignee does not exist")
	ErrTaskNotAssigned        = errors.New("task has no assignee")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAIRequestFailed        = errors.New("AI request failed")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	teamRepo     repository.TeamRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	aiService    *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	aiService *AIService,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		aiService:    aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *uint64
	TeamID     *uint64
	AssigneeID *uint64
	Status     *models.TaskStatus
	Page       utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	TeamID      *uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	StartDate   *time.Time
	EndDate     *time.Time
	AssigneeID  *uint64
	ActorID     uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	TeamID         *uint64
	ClearTeam      bool
	StartDate      *time.Time
	EndDate        *time.Time
	ClearStartDate bool
	ClearEndDate   bool
	ActorID        uint64
}

var taskDetailPreloads = []string{"Project", "Team", "Assignment", "Assignment.User"}

// ListTasks returns tasks matching the provided filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !validStatus(*input.Status) {
		return nil, 0, ErrInvalidStatus
	}

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectID:  input.ProjectID,
		TeamID:     input.TeamID,
		AssigneeID: input.AssigneeID,
		Status:     input.Status,
		Page:       input.Page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.findTask(ctx, taskID, taskDetailPreloads...)
}

// CreateTask validates and creates a task, optionally assigning it
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if input.TeamID != nil {
		if err := s.ensureTeamFitsProject(ctx, *input.TeamID, input.ProjectID); err != nil {
			return nil, err
		}
	}
	var assignee *models.User
	if input.AssigneeID != nil {
		user, err := s.findAssignee(ctx, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
		assignee = user
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		TeamID:      input.TeamID,
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logActivity(ctx, task.ID, input.ActorID, models.ActivityCreated, fmt.Sprintf("created task %q", task.Title))

	if assignee != nil {
		if err := s.taskRepo.AssignTask(ctx, task.ID, assignee.ID); err != nil {
			return nil, fmt.Errorf("failed to assign task: %w", err)
		}
		s.logActivity(ctx, task.ID, input.ActorID, models.ActivityAssigned, "assigned to "+assignee.FullName())
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	previousStatus := task.Status

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearTeam {
		task.TeamID = nil
	} else if input.TeamID != nil {
		if err := s.ensureTeamFitsProject(ctx, *input.TeamID, task.ProjectID); err != nil {
			return nil, err
		}
		task.TeamID = input.TeamID
	}
	if input.ClearStartDate {
		task.StartDate = nil
	} else if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.ClearEndDate {
		task.EndDate = nil
	} else if input.EndDate != nil {
		task.EndDate = input.EndDate
	}
	if err := validateDateRange(task.StartDate, task.EndDate); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logActivity(ctx, task.ID, input.ActorID, models.ActivityUpdated, "updated task details")
	if task.Status != previousStatus {
		s.logActivity(ctx, task.ID, input.ActorID, models.ActivityStatusChanged, statusChange(previousStatus, task.Status))
	}

	return s.GetTask(ctx, task.ID)
}

// ChangeStatus moves a task to another status
func (s *TaskService) ChangeStatus(ctx context.Context, taskID uint64, status models.TaskStatus, actorID uint64) (*models.Task, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return s.GetTask(ctx, taskID)
	}

	updated, err := s.taskRepo.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to change status: %w", err)
	}
	if !updated {
		return nil, ErrTaskNotFound
	}
	s.logActivity(ctx, taskID, actorID, models.ActivityStatusChanged, statusChange(task.Status, status))

	return s.GetTask(ctx, taskID)
}

// DeleteTask removes a task with its assignment and activity. Only the
// project manager or a user allowed to manage projects may do this.
func (s *TaskService) DeleteTask(ctx context.Context, actor *models.User, taskID uint64) error {
	task, err := s.findTask(ctx, taskID, "Project")
	if err != nil {
		return err
	}
	if !CanManage(actor, task.Project) {
		return ErrTaskPermissionDenied
	}

	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}

	slog.InfoContext(ctx, "task deleted", "task_id", taskID, "actor_id", actor.ID)
	return nil
}

// AssignTask makes userID the only assignee of the task
func (s *TaskService) AssignTask(ctx context.Context, taskID, userID, actorID uint64) (*models.Task, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}
	assignee, err := s.findAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.AssignTask(ctx, taskID, userID); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	s.logActivity(ctx, taskID, actorID, models.ActivityAssigned, "assigned to "+assignee.FullName())

	return s.GetTask(ctx, taskID)
}

// UnassignTask clears the assignee of a task
func (s *TaskService) UnassignTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	removed, err := s.taskRepo.Unassign(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}
	if !removed {
		return nil, ErrTaskNotAssigned
	}
	s.logActivity(ctx, taskID, actorID, models.ActivityUnassigned, "removed assignee")

	return s.GetTask(ctx, taskID)
}

// ListActivity returns the audit trail of a task, oldest first
func (s *TaskService) ListActivity(ctx context.Context, taskID uint64) ([]models.TaskActivity, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}

// RecentActivity returns the newest activity across all tasks
func (s *TaskService) RecentActivity(ctx context.Context) ([]models.TaskActivity, error) {
	activities, err := s.activityRepo.ListRecent(ctx, constants.RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	return activities, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	ProjectID uint64
	Text      string
}

// GenerateDrafts uses AI to propose tasks for a project. Nothing is stored.
func (s *TaskService) GenerateDrafts(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, project.ProjectName, input.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("%w: too many tasks (max %d)", ErrAIRequestFailed, constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}
		if aiTask.EndDate != nil && aiTask.EndDate.Before(cutoff) {
			aiTask.EndDate = nil
		}
		if validateDateRange(aiTask.StartDate, aiTask.EndDate) != nil {
			aiTask.StartDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findAssignee(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	return user, nil
}

// ensureTeamFitsProject rejects a team bound to another project. Teams
// without a project may be used anywhere.
func (s *TaskService) ensureTeamFitsProject(ctx context.Context, teamID, projectID uint64) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	if team.ProjectID != nil && *team.ProjectID != projectID {
		return ErrTeamProjectMismatch
	}
	return nil
}

// logActivity appends to the audit trail. The mutation it describes has
// already committed, so a failure here is logged rather than returned.
func (s *TaskService) logActivity(ctx context.Context, taskID, actorID uint64, kind models.ActivityType, description string) {
	err := s.activityRepo.Append(ctx, &models.TaskActivity{
		TaskID:       taskID,
		UserID:       actorID,
		ActivityType: kind,
		Description:  description,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record task activity",
			"task_id", taskID, "activity_type", kind, "error", err)
	}
}

func validStatus(status models.TaskStatus) bool {
	switch status {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
		return true
	}
	return false
}

func statusChange(from, to models.TaskStatus) string {
	return fmt.Sprintf("status changed from %s to %s", from, to)
}
