package repository

import (
	"context"
	"errors"
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository is a GORM implementation of SettingsRepository
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or defaults when the user never saved any
func (r *GormSettingsRepository) Get(ctx context.Context, userID uint64) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert creates the settings row on first write. The conflict target is
// user_id, so the row is always inserted without its primary key.
func (r *GormSettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	row := *settings
	row.ID = 0

	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"theme", "default_view"}),
		}).
		Create(&row).Error)
}

// TouchPasswordChange records the time of the last password change
func (r *GormSettingsRepository) TouchPasswordChange(ctx context.Context, userID uint64) error {
	now := time.Now()
	row := models.DefaultSettings(userID)
	row.LastPasswordChange = &now

	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_password_change"}),
		}).
		Create(&row).Error)
}
