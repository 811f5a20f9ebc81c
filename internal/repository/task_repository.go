package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/projectdesk/projectdesk/internal/database"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translate(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *filter.TeamID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", *filter.AssigneeID)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Scopes(database.Paginate(filter.Page)).
		Order("tasks.id ASC").
		Preload("Assignment").
		Preload("Assignment.User").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return translate(r.db.WithContext(ctx).
		Omit("Project", "Team", "Assignment").
		Save(task).Error)
}

// UpdateStatus changes only the status column of a task
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{ID: id}).
		Update("status", status)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a task with its assignment and activity rows
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return fmt.Errorf("delete task assignments: %w", err)
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskActivity{}).Error; err != nil {
			return fmt.Errorf("delete task activity: %w", err)
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete task: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "task cascade rolled back", "task_id", id, "error", err)
		return false, translate(err)
	}

	return deleted, nil
}

// AssignTask replaces the task's assignment inside one transaction
func (r *GormTaskRepository) AssignTask(ctx context.Context, taskID, userID uint64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Create(&models.TaskAssignment{
			TaskID:     taskID,
			UserID:     userID,
			AssignedAt: time.Now(),
		}).Error
	}))
}

// Unassign clears the assignment of a task
func (r *GormTaskRepository) Unassign(ctx context.Context, taskID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.TaskAssignment{})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FindAssignment returns the current assignment of a task
func (r *GormTaskRepository) FindAssignment(ctx context.Context, taskID uint64) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CountByProjectAndStatus groups task counts per project and status. A nil
// or empty project set counts across all projects.
func (r *GormTaskRepository) CountByProjectAndStatus(ctx context.Context, projectIDs []uint64) ([]StatusCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("project_id, status, COUNT(*) AS count").
		Group("project_id, status").
		Order("project_id, status")
	if len(projectIDs) > 0 {
		query = query.Where("project_id IN ?", projectIDs)
	}

	var counts []StatusCount
	if err := query.Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
