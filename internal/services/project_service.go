package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrProjectNameRequired     = errors.New("project name is required")
	ErrInvalidDateRange        = errors.New("end date must not be before start date")
	ErrManagerNotFound         = errors.New("manager does not exist")
	ErrProjectPermissionDenied = errors.New("only the project manager can modify this project")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	// ManagerID defaults to the actor
	ManagerID *uint64
	ActorID   uint64
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name           *string
	Description    *string
	StartDate      *time.Time
	EndDate        *time.Time
	ClearStartDate bool
	ClearEndDate   bool
	ManagerID      *uint64
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	ManagerID *uint64
	Page      utils.PaginationParams
}

// CanManage reports whether actor may modify or delete project.
func CanManage(actor *models.User, project *models.Project) bool {
	if actor == nil || project == nil {
		return false
	}
	return actor.ID == project.ManagerID || actor.Can(models.PermissionManageProjects)
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	managerID := input.ActorID
	if input.ManagerID != nil {
		managerID = *input.ManagerID
	}
	if err := s.ensureUserExists(ctx, managerID, ErrManagerNotFound); err != nil {
		return nil, err
	}

	project := &models.Project{
		ProjectName: name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ManagerID:   managerID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.InfoContext(ctx, "project created", "project_id", project.ID, "actor_id", input.ActorID)
	return s.GetProject(ctx, project.ID)
}

// GetProject returns a project with its manager
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjects returns a page of projects
func (s *ProjectService) ListProjects(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		ManagerID: input.ManagerID,
		Page:      input.Page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// UpdateProject updates an existing project
func (s *ProjectService) UpdateProject(ctx context.Context, actor *models.User, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, project) {
		return nil, ErrProjectPermissionDenied
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.ProjectName = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ClearStartDate {
		project.StartDate = nil
	} else if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.ClearEndDate {
		project.EndDate = nil
	} else if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if err := validateDateRange(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}
	if input.ManagerID != nil && *input.ManagerID != project.ManagerID {
		if err := s.ensureUserExists(ctx, *input.ManagerID, ErrManagerNotFound); err != nil {
			return nil, err
		}
		project.ManagerID = *input.ManagerID
		project.Manager = nil
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// DeleteProject removes a project together with its tasks and teams
func (s *ProjectService) DeleteProject(ctx context.Context, actor *models.User, id uint64) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if !CanManage(actor, project) {
		return ErrProjectPermissionDenied
	}

	deleted, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		return ErrProjectNotFound
	}

	slog.InfoContext(ctx, "project deleted", "project_id", id, "actor_id", actor.ID)
	return nil
}

func (s *ProjectService) ensureUserExists(ctx context.Context, userID uint64, notFound error) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}
