package repository

import (
	"context"
	"fmt"

	"github.com/projectdesk/projectdesk/internal/database"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit("Role", "Group").Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users
func (r *GormUserRepository) List(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Scopes(database.Paginate(page)).
		Order("name ASC, last_name ASC, id ASC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update saves the profile columns of a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).
		Model(user).
		Select("name", "last_name", "email", "role_id", "group_id", "password_hint").
		Updates(user).Error)
}

// UpdatePassword replaces the stored password hash
func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID uint64, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hash)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a user with the rows that only exist for them. Activity
// authored by the user is kept; managed projects block the delete.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var managed int64
		if err := tx.Model(&models.Project{}).Where("manager_id = ?", id).Count(&managed).Error; err != nil {
			return err
		}
		if managed > 0 {
			return fmt.Errorf("%w: user manages %d project(s)", ErrConflict, managed)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Settings{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, translate(err)
	}

	return deleted, nil
}
