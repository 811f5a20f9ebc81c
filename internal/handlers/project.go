package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/dto"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
	teamService    *services.TeamService
}

func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService, teamService *services.TeamService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
		teamService:    teamService,
	}
}

type projectRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	ManagerID      *uint64 `json:"manager_id"`
	ClearStartDate bool    `json:"clear_start_date"`
	ClearEndDate   bool    `json:"clear_end_date"`
}

// ListProjects returns a page of projects, optionally filtered by manager
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	managerID, ok := parseOptionalUint(c, "manager_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), services.ListProjectsInput{
		ManagerID: managerID,
		Page:      params,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params, total))
}

// CreateProject creates a project managed by the caller unless manager_id is given
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	input := services.CreateProjectInput{
		Name:      *req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		ManagerID: req.ManagerID,
		ActorID:   user.ID,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the project loaded by LoadProject
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project; only its manager or a project admin may
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := parseIDParam(c, "id", "project ID")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), user, projectID, services.UpdateProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      startDate,
		EndDate:        endDate,
		ClearStartDate: req.ClearStartDate,
		ClearEndDate:   req.ClearEndDate,
		ManagerID:      req.ManagerID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project with all of its tasks and teams
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := parseIDParam(c, "id", "project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), user, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListTeams returns the teams of a project
func (h *ProjectHandler) ListTeams(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id", "project ID")
	if !ok {
		return
	}

	teams, err := h.teamService.ListProjectTeams(c.Request.Context(), projectID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": dto.ToTeamDTOs(teams),
	})
}

// GenerateTasks asks the AI for task drafts for this project
func (h *ProjectHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required,max=10000"`
	}

	projectID, ok := parseIDParam(c, "id", "project ID")
	if !ok {
		return
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), services.GenerateTasksInput{
		ProjectID: projectID,
		Text:      req.Text,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToGeneratedTaskDTOs(drafts),
	})
}

func parseDateRange(c *gin.Context, start, end *string) (startDate, endDate *time.Time, ok bool) {
	var err error
	if start != nil {
		if startDate, err = parseDate(*start); err != nil {
			apierrors.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD or RFC3339")
			return nil, nil, false
		}
	}
	if end != nil {
		if endDate, err = parseDate(*end); err != nil {
			apierrors.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD or RFC3339")
			return nil, nil, false
		}
	}
	return startDate, endDate, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrManagerNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		respondUnexpected(c, err)
	}
}
