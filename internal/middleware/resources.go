package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/constants"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
)

// LoadTask resolves the :id parameter to a task with its relations
func LoadTask(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		task, err := taskService.GetTask(c.Request.Context(), taskID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "Task not found")
				return
			}
			apierrors.InternalError(c, "Failed to load task")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// LoadProject resolves the :id parameter to a project with its manager
func LoadProject(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}

		project, err := projectService.GetProject(c.Request.Context(), projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
				return
			}
			apierrors.InternalError(c, "Failed to load project")
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetTask retrieves the task loaded by LoadTask
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}

// GetProject retrieves the project loaded by LoadProject
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
