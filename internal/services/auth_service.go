package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/projectdesk/projectdesk/internal/constants"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	settingsRepo repository.SettingsRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, settingsRepo repository.SettingsRepository) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		settingsRepo: settingsRepo,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	LastName string
	Email    string
	Password string
}

// Signup creates a new user with the member role.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	role, err := s.roleRepo.FindRoleByName(ctx, models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to find default role: %w", err)
	}

	user := &models.User{
		Name:         name,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = role
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Accounts
// still on a legacy digest are rehashed with bcrypt on success.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, legacy := verifyPassword(user.PasswordHash, input.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if legacy {
		if hashed, err := hashPassword(input.Password); err == nil {
			if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
				slog.WarnContext(ctx, "failed to upgrade legacy password hash", "user_id", user.ID, "error", err)
			} else {
				user.PasswordHash = hashed
				slog.InfoContext(ctx, "upgraded legacy password hash", "user_id", user.ID)
			}
		}
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangePasswordInput holds the data for a password change.
type ChangePasswordInput struct {
	UserID          uint64
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if ok, _ := verifyPassword(user.PasswordHash, input.CurrentPassword); !ok {
		return ErrInvalidCredentials
	}
	if len(input.NewPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.settingsRepo.TouchPasswordChange(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to record password change: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
