package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/projectdesk/projectdesk/internal/database"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error)
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("Manager").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Manager").
		Scopes(database.Paginate(filter.Page)).
		Order("projects.id ASC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit("Manager").Save(project).Error)
}

// Delete removes the project and everything that only exists because of it.
// Children go first so that declared foreign keys never block the delete.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	var step string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		step = "collect tasks"
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		var teamIDs []uint64
		step = "collect teams"
		if err := tx.Model(&models.Team{}).Where("project_id = ?", id).Pluck("id", &teamIDs).Error; err != nil {
			return err
		}

		step = "delete task assignments"
		if err := deleteIn(tx, &models.TaskAssignment{}, "task_id", taskIDs); err != nil {
			return err
		}

		step = "delete task activity"
		if err := deleteIn(tx, &models.TaskActivity{}, "task_id", taskIDs); err != nil {
			return err
		}

		step = "delete tasks"
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// a team moved here from another project may still carry that project's tasks
		step = "detach foreign tasks"
		if len(teamIDs) > 0 {
			if err := tx.Model(&models.Task{}).
				Where("team_id IN ? AND project_id <> ?", teamIDs, id).
				Update("team_id", nil).Error; err != nil {
				return err
			}
		}

		step = "delete team members"
		if err := deleteIn(tx, &models.TeamMember{}, "team_id", teamIDs); err != nil {
			return err
		}

		step = "delete teams"
		if err := tx.Where("project_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return err
		}

		step = "delete project"
		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0

		slog.InfoContext(ctx, "project cascade applied",
			"project_id", id, "tasks", len(taskIDs), "teams", len(teamIDs), "deleted", deleted)
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "project cascade rolled back", "project_id", id, "step", step, "error", err)
		return false, fmt.Errorf("%s: %w", step, translate(err))
	}

	return deleted, nil
}
