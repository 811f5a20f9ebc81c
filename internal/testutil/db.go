// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/projectdesk/projectdesk/internal/database"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory SQLite database. The pool is pinned
// to one connection because every ":memory:" connection is its own database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// NewMockDB returns a GORM handle backed by go-sqlmock speaking the MySQL
// dialect. Implicit per-statement transactions are disabled so that only the
// explicit transactions under test show up as Begin/Commit.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	cfg := database.GormConfig(logger.Silent)
	cfg.SkipDefaultTransaction = true

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), cfg)
	require.NoError(t, err)

	return db, mock
}

// Fixtures creates rows with sensible defaults.
type Fixtures struct {
	T  *testing.T
	DB *gorm.DB
}

func (f Fixtures) Role(name string) *models.Role {
	f.T.Helper()
	var role models.Role
	require.NoError(f.T, f.DB.Where("role_name = ?", name).First(&role).Error)
	return &role
}

func (f Fixtures) User(email string) *models.User {
	f.T.Helper()
	user := &models.User{
		Name:         "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hashed",
		RoleID:       f.Role(models.RoleMember).ID,
	}
	require.NoError(f.T, f.DB.Create(user).Error)
	return user
}

func (f Fixtures) Project(name string, managerID uint64) *models.Project {
	f.T.Helper()
	project := &models.Project{ProjectName: name, ManagerID: managerID}
	require.NoError(f.T, f.DB.Create(project).Error)
	return project
}

func (f Fixtures) Team(name string, projectID uint64) *models.Team {
	f.T.Helper()
	team := &models.Team{TeamName: name, ProjectID: &projectID}
	require.NoError(f.T, f.DB.Create(team).Error)
	return team
}

func (f Fixtures) Member(teamID, userID uint64) *models.TeamMember {
	f.T.Helper()
	member := &models.TeamMember{TeamID: teamID, UserID: userID}
	require.NoError(f.T, f.DB.Create(member).Error)
	return member
}

func (f Fixtures) Task(title string, projectID uint64, teamID *uint64) *models.Task {
	f.T.Helper()
	task := &models.Task{
		Title:     title,
		ProjectID: projectID,
		TeamID:    teamID,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
	}
	require.NoError(f.T, f.DB.Create(task).Error)
	return task
}

func (f Fixtures) Assignment(taskID, userID uint64) {
	f.T.Helper()
	require.NoError(f.T, f.DB.Create(&models.TaskAssignment{TaskID: taskID, UserID: userID}).Error)
}

func (f Fixtures) Activity(taskID, userID uint64, kind models.ActivityType) {
	f.T.Helper()
	require.NoError(f.T, f.DB.Create(&models.TaskActivity{
		TaskID:       taskID,
		UserID:       userID,
		ActivityType: kind,
	}).Error)
}

// Count returns the number of rows of model matching the optional condition.
func (f Fixtures) Count(model any, query string, args ...any) int64 {
	f.T.Helper()
	var n int64
	q := f.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.T, q.Count(&n).Error)
	return n
}
