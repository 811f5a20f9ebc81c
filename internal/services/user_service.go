package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupNameRequired   = errors.New("group name is required")
	ErrGroupExists         = errors.New("group already exists")
	ErrCannotDeleteSelf    = errors.New("users cannot delete their own account")
	ErrUserManagesProjects = errors.New("user still manages projects")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrInvalidDefaultView  = errors.New("invalid default view")
)

var (
	validThemes       = []string{"light", "dark"}
	validDefaultViews = []string{"dashboard", "projects", "tasks", "teams"}
)

// UserService handles user administration and preferences
type UserService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	settingsRepo repository.SettingsRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, settingsRepo repository.SettingsRepository) *UserService {
	return &UserService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		settingsRepo: settingsRepo,
	}
}

// UpdateUserInput represents an administrative profile update
type UpdateUserInput struct {
	Name       *string
	LastName   *string
	Email      *string
	RoleID     *uint64
	GroupID    *uint64
	ClearGroup bool
}

// UpdateSettingsInput represents a change of preferences
type UpdateSettingsInput struct {
	Theme       *string
	DefaultView *string
}

// ListUsers returns a page of users
func (s *UserService) ListUsers(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a user with its role
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUser changes profile, role and group of a user
func (s *UserService) UpdateUser(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		user.Email = email
	}
	if input.RoleID != nil {
		role, err := s.roleRepo.FindRoleByID(ctx, *input.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, fmt.Errorf("failed to find role: %w", err)
		}
		user.RoleID = role.ID
		user.Role = role
	}
	if input.ClearGroup {
		user.GroupID = nil
	} else if input.GroupID != nil {
		if _, err := s.roleRepo.FindGroupByID(ctx, *input.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, fmt.Errorf("failed to find group: %w", err)
		}
		user.GroupID = input.GroupID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUser(ctx, id)
}

// DeleteUser removes a user with settings, memberships and assignments
func (s *UserService) DeleteUser(ctx context.Context, id, actorID uint64) error {
	if id == actorID {
		return ErrCannotDeleteSelf
	}

	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrUserManagesProjects
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}

	slog.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actorID)
	return nil
}

// ListRoles returns every role
func (s *UserService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// ListGroups returns every group
func (s *UserService) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.roleRepo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// CreateGroup adds a user group
func (s *UserService) CreateGroup(ctx context.Context, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group := &models.Group{GroupName: name, Description: description}
	if err := s.roleRepo.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// GetSettings returns the preferences of a user, defaults included
func (s *UserService) GetSettings(ctx context.Context, userID uint64) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and stores preferences
func (s *UserService) UpdateSettings(ctx context.Context, userID uint64, input UpdateSettingsInput) (*models.Settings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Theme != nil {
		if !slices.Contains(validThemes, *input.Theme) {
			return nil, ErrInvalidTheme
		}
		settings.Theme = *input.Theme
	}
	if input.DefaultView != nil {
		if !slices.Contains(validDefaultViews, *input.DefaultView) {
			return nil, ErrInvalidDefaultView
		}
		settings.DefaultView = *input.DefaultView
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return s.GetSettings(ctx, userID)
}
