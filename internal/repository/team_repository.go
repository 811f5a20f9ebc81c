package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return translate(r.db.WithContext(ctx).Omit("Members").Create(team).Error)
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListByProject lists the teams of a project
func (r *GormTeamRepository) ListByProject(ctx context.Context, projectID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team) error {
	return translate(r.db.WithContext(ctx).Omit("Members").Save(team).Error)
}

// Delete removes a team and its memberships. Tasks of the team stay with
// their project and lose the team reference.
func (r *GormTeamRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Team{}, id)
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

// ListMembers lists the members of a team, leaders first
func (r *GormTeamRepository) ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("is_leader DESC, user_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember adds a user to a team
func (r *GormTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(member).Error)
}

// RemoveMember removes a user from a team
func (r *GormTeamRepository) RemoveMember(ctx context.Context, teamID, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetLeader clears the leader flag on the team and sets it for userID
func (r *GormTeamRepository) SetLeader(ctx context.Context, teamID, userID uint64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ?", teamID).
			Update("is_leader", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Update("is_leader", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

// FindUserTeam returns the user's current team membership
func (r *GormTeamRepository) FindUserTeam(ctx context.Context, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("team_id ASC").
		Take(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateUserTeam replaces every membership of the user with a single,
// non-leader membership of teamID.
func (r *GormTeamRepository) UpdateUserTeam(ctx context.Context, userID, teamID uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.TeamMember
		err := tx.Where("user_id = ?", userID).Order("team_id ASC").Take(&current).Error
		switch {
		case err == nil && current.TeamID == teamID:
			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		return tx.Omit("User").Create(&models.TeamMember{
			TeamID:   teamID,
			UserID:   userID,
			IsLeader: false,
		}).Error
	})
	if err != nil {
		slog.WarnContext(ctx, "team move rolled back", "user_id", userID, "team_id", teamID, "error", err)
		return translate(err)
	}
	return nil
}
