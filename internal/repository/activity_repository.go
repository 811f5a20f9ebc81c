package repository

import (
	"context"

	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository writes and reads the task audit log. There is
// deliberately no update or delete method.
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Append writes one activity row
func (r *GormActivityRepository) Append(ctx context.Context, activity *models.TaskActivity) error {
	return translate(r.db.WithContext(ctx).Create(activity).Error)
}

// ListByTask returns a task's activity, oldest first
func (r *GormActivityRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskActivity, error) {
	var activities []models.TaskActivity
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ListRecent returns the newest activity across all tasks
func (r *GormActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.TaskActivity, error) {
	var activities []models.TaskActivity
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
