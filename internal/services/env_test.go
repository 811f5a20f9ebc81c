package services

import (
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// serviceEnv wires every service against one in-memory database.
type serviceEnv struct {
	db       *gorm.DB
	fixtures testutil.Fixtures

	users      repository.UserRepository
	roles      repository.RoleRepository
	projects   repository.ProjectRepository
	teams      repository.TeamRepository
	tasks      repository.TaskRepository
	activity   repository.ActivityRepository
	settings   repository.SettingsRepository
	reportRepo repository.ReportRepository

	auth    *AuthService
	project *ProjectService
	task    *TaskService
	team    *TeamService
	user    *UserService
	report  *ReportService
}

func newServiceEnv(t *testing.T, ai *AIService) *serviceEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	env := &serviceEnv{
		db:         db,
		fixtures:   testutil.Fixtures{T: t, DB: db},
		users:      repository.NewUserRepository(db),
		roles:      repository.NewRoleRepository(db),
		projects:   repository.NewProjectRepository(db),
		teams:      repository.NewTeamRepository(db),
		tasks:      repository.NewTaskRepository(db),
		activity:   repository.NewActivityRepository(db),
		settings:   repository.NewSettingsRepository(db),
		reportRepo: repository.NewReportRepository(db),
	}

	env.auth = NewAuthService(env.users, env.roles, env.settings)
	env.project = NewProjectService(env.projects, env.users)
	env.task = NewTaskService(env.tasks, env.projects, env.teams, env.users, env.activity, ai)
	env.team = NewTeamService(env.teams, env.projects, env.users)
	env.user = NewUserService(env.users, env.roles, env.settings)
	env.report = NewReportService(env.projects, env.tasks, env.teams, env.activity, env.reportRepo, t.TempDir())
	return env
}

// userWithRole creates a user and loads it with its role.
func (e *serviceEnv) userWithRole(t *testing.T, email, role string) *models.User {
	t.Helper()

	user := e.fixtures.User(email)
	if role != models.RoleMember {
		require.NoError(t, e.db.Model(user).Update("role_id", e.fixtures.Role(role).ID).Error)
	}
	require.NoError(t, e.db.Preload("Role").First(user, user.ID).Error)
	return user
}
