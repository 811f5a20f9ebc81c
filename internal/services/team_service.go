package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrMemberNotFound   = errors.New("user is not a member of the team")
	ErrAlreadyMember    = errors.New("user is already a member of the team")
)

// TeamService handles team and membership business logic
type TeamService struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name      string
	ProjectID *uint64
}

// UpdateTeamInput represents input for updating a team
type UpdateTeamInput struct {
	Name         *string
	ProjectID    *uint64
	ClearProject bool
}

// CreateTeam creates a team, optionally bound to a project
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.ProjectID != nil {
		if err := s.ensureProject(ctx, *input.ProjectID); err != nil {
			return nil, err
		}
	}

	team := &models.Team{TeamName: name, ProjectID: input.ProjectID}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// GetTeam returns a team with its members
func (s *TeamService) GetTeam(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	team.Members = members
	return team, nil
}

// ListProjectTeams lists the teams of a project
func (s *TeamService) ListProjectTeams(ctx context.Context, projectID uint64) ([]models.Team, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// UpdateTeam renames a team or moves it to another project
func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.TeamName = name
	}
	if input.ClearProject {
		team.ProjectID = nil
	} else if input.ProjectID != nil {
		if err := s.ensureProject(ctx, *input.ProjectID); err != nil {
			return nil, err
		}
		team.ProjectID = input.ProjectID
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes a team and its memberships
func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	deleted, err := s.teamRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if !deleted {
		return ErrTeamNotFound
	}
	slog.InfoContext(ctx, "team deleted", "team_id", id)
	return nil
}

// ListMembers lists the members of a team
func (s *TeamService) ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMember, error) {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds a user to a team
func (s *TeamService) AddMember(ctx context.Context, teamID, userID uint64) error {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}

	if err := s.teamRepo.AddMember(ctx, &models.TeamMember{TeamID: teamID, UserID: userID}); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a team
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	removed, err := s.teamRepo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

// SetLeader makes a member the only leader of the team
func (s *TeamService) SetLeader(ctx context.Context, teamID, userID uint64) error {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}

	if err := s.teamRepo.SetLeader(ctx, teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to set leader: %w", err)
	}
	return nil
}

// MoveUser places a user on exactly one team
func (s *TeamService) MoveUser(ctx context.Context, userID, teamID uint64) (*models.TeamMember, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateUserTeam(ctx, userID, teamID); err != nil {
		return nil, fmt.Errorf("failed to move user: %w", err)
	}

	member, err := s.teamRepo.FindUserTeam(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return member, nil
}

func (s *TeamService) findTeam(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func (s *TeamService) ensureProject(ctx context.Context, projectID uint64) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

func (s *TeamService) ensureUser(ctx context.Context, userID uint64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}
