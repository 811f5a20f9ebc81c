package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/dto"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks filtered by project_id, team_id, assignee_id and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{Page: utils.GetPaginationParams(c)}

	var ok bool
	if input.ProjectID, ok = parseOptionalUint(c, "project_id"); !ok {
		return
	}
	if input.TeamID, ok = parseOptionalUint(c, "team_id"); !ok {
		return
	}
	if c.Query("assignee_id") == "me" {
		userID, _ := middleware.GetUserID(c)
		input.AssigneeID = &userID
	} else if input.AssigneeID, ok = parseOptionalUint(c, "assignee_id"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Page, total))
}

// CreateTask creates a new task in a project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID   uint64              `json:"project_id" binding:"required"`
		TeamID      *uint64             `json:"team_id"`
		Title       string              `json:"title" binding:"required,max=255"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		StartDate   *string             `json:"start_date"`
		EndDate     *string             `json:"end_date"`
		AssigneeID  *uint64             `json:"assignee_id"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		TeamID:      req.TeamID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   startDate,
		EndDate:     endDate,
		AssigneeID:  req.AssigneeID,
		ActorID:     userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns the task loaded by LoadTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title          *string              `json:"title"`
		Description    *string              `json:"description"`
		Status         *models.TaskStatus   `json:"status"`
		Priority       *models.TaskPriority `json:"priority"`
		TeamID         *uint64              `json:"team_id"`
		ClearTeam      bool                 `json:"clear_team"`
		StartDate      *string              `json:"start_date"`
		EndDate        *string              `json:"end_date"`
		ClearStartDate bool                 `json:"clear_start_date"`
		ClearEndDate   bool                 `json:"clear_end_date"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		TeamID:         req.TeamID,
		ClearTeam:      req.ClearTeam,
		StartDate:      startDate,
		EndDate:        endDate,
		ClearStartDate: req.ClearStartDate,
		ClearEndDate:   req.ClearEndDate,
		ActorID:        userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ChangeStatus moves a task to another status
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	type ChangeStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ChangeStatus(c.Request.Context(), taskID, req.Status, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its assignment and activity
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), user, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AssignTask makes a user the only assignee of the task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	type AssignRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), taskID, req.UserID, actorID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UnassignTask clears the assignee of a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	task, err := h.taskService.UnassignTask(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListActivity returns the audit trail of a task
func (h *TaskHandler) ListActivity(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	activities, err := h.taskService.ListActivity(c.Request.Context(), taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": dto.ToTaskActivityDTOs(activities),
	})
}

// RecentActivity returns the newest activity across all tasks
func (h *TaskHandler) RecentActivity(c *gin.Context) {
	activities, err := h.taskService.RecentActivity(c.Request.Context())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": dto.ToTaskActivityDTOs(activities),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamProjectMismatch),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotAssigned):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAIRequestFailed):
		apierrors.BadGateway(c, "Failed to generate tasks")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		respondUnexpected(c, err)
	}
}
