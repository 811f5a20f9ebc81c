package repository

import (
	"context"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID with its role preloaded
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email with its role preloaded
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns a page of users ordered by name
	List(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error)

	// Update saves profile columns of a user
	Update(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, userID uint64, hash string) error

	// Delete removes a user together with settings, memberships and
	// assignments. Reports whether the user row was removed.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// RoleRepository covers the static role and group reference data
type RoleRepository interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	FindRoleByID(ctx context.Context, id uint64) (*models.Role, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	FindGroupByID(ctx context.Context, id uint64) (*models.Group, error)
	CreateGroup(ctx context.Context, group *models.Group) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	ManagerID *uint64
	Page      utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project and every task, team, membership,
	// assignment and activity row hanging off it in one transaction.
	// Reports whether the project row itself was removed.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id uint64) (*models.Team, error)
	ListByProject(ctx context.Context, projectID uint64) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error

	// Delete removes the team and its memberships and detaches its tasks
	Delete(ctx context.Context, id uint64) (bool, error)

	ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMember, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uint64) (bool, error)

	// SetLeader makes userID the only leader of the team
	SetLeader(ctx context.Context, teamID, userID uint64) error

	// FindUserTeam returns the user's current team membership
	FindUserTeam(ctx context.Context, userID uint64) (*models.TeamMember, error)

	// UpdateUserTeam moves a user to exactly one team, dropping every other
	// membership. A user already on the team is left untouched.
	UpdateUserTeam(ctx context.Context, userID, teamID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  *uint64
	TeamID     *uint64
	AssigneeID *uint64
	Status     *models.TaskStatus
	Page       utils.PaginationParams
}

// StatusCount is one row of a grouped task count
type StatusCount struct {
	ProjectID uint64
	Status    models.TaskStatus
	Count     int64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// UpdateStatus changes only the status column
	UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) (bool, error)

	// Delete removes a task with its assignment and activity rows
	Delete(ctx context.Context, id uint64) (bool, error)

	// AssignTask replaces whatever assignment the task had with userID
	AssignTask(ctx context.Context, taskID, userID uint64) error

	// Unassign clears the assignment of a task
	Unassign(ctx context.Context, taskID uint64) (bool, error)

	// FindAssignment returns the current assignment of a task
	FindAssignment(ctx context.Context, taskID uint64) (*models.TaskAssignment, error)

	// CountByProjectAndStatus groups task counts for reporting
	CountByProjectAndStatus(ctx context.Context, projectIDs []uint64) ([]StatusCount, error)
}

// ActivityRepository is the append-only task audit log
type ActivityRepository interface {
	Append(ctx context.Context, activity *models.TaskActivity) error
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskActivity, error)
	ListRecent(ctx context.Context, limit int) ([]models.TaskActivity, error)
}

// SettingsRepository stores per-user preferences
type SettingsRepository interface {
	// Get returns the stored settings or unsaved defaults
	Get(ctx context.Context, userID uint64) (*models.Settings, error)

	// Upsert creates the row on first write and updates it afterwards
	Upsert(ctx context.Context, settings *models.Settings) error

	// TouchPasswordChange stamps last_password_change
	TouchPasswordChange(ctx context.Context, userID uint64) error
}

// ReportRepository stores export records
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uint64) (*models.Report, error)
	List(ctx context.Context, page utils.PaginationParams) ([]models.Report, int64, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}
