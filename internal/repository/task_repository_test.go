package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/testutil"
	"github.com/projectdesk/projectdesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTaskDelete_LeavesSiblingsUntouched(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	seed := seedProject(f)
	target, sibling := seed.tasks[0], seed.tasks[2]

	deleted, err := NewTaskRepository(db).Delete(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Zero(t, f.Count(&models.Task{}, "id = ?", target.ID))
	assert.Zero(t, f.Count(&models.TaskAssignment{}, "task_id = ?", target.ID))
	assert.Zero(t, f.Count(&models.TaskActivity{}, "task_id = ?", target.ID))

	assert.EqualValues(t, 2, f.Count(&models.Task{}, "project_id = ?", seed.project.ID))
	assert.EqualValues(t, 1, f.Count(&models.TaskAssignment{}, "task_id = ?", sibling.ID))
	assert.EqualValues(t, 1, f.Count(&models.TaskActivity{}, "task_id = ?", sibling.ID))
}

func TestTaskDelete_MissingID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	deleted, err := NewTaskRepository(db).Delete(context.Background(), 424242)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAssignTask_KeepsSingleAssignee(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	manager := f.User("manager@example.com")
	alice := f.User("alice@example.com")
	bob := f.User("bob@example.com")
	project := f.Project("Apollo", manager.ID)
	task := f.Task("Schema", project.ID, nil)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AssignTask(ctx, task.ID, alice.ID))
	require.NoError(t, repo.AssignTask(ctx, task.ID, bob.ID))

	assert.EqualValues(t, 1, f.Count(&models.TaskAssignment{}, "task_id = ?", task.ID))
	assignment, err := repo.FindAssignment(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, assignment.UserID)
	require.NotNil(t, assignment.User)
	assert.Equal(t, "bob@example.com", assignment.User.Email)
	assert.False(t, assignment.AssignedAt.IsZero())

	// reassigning the same user is harmless
	require.NoError(t, repo.AssignTask(ctx, task.ID, bob.ID))
	assert.EqualValues(t, 1, f.Count(&models.TaskAssignment{}, "task_id = ?", task.ID))
}

func TestUnassign(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	manager := f.User("manager@example.com")
	project := f.Project("Apollo", manager.ID)
	task := f.Task("Schema", project.ID, nil)
	f.Assignment(task.ID, manager.ID)
	repo := NewTaskRepository(db)

	removed, err := repo.Unassign(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Unassign(context.Background(), task.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.FindAssignment(context.Background(), task.ID)
	assert.True(t, IsNotFound(err))
}

func TestTaskList_Filters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	seed := seedProject(f)
	alice := seed.users[1]
	repo := NewTaskRepository(db)
	ctx := context.Background()

	done := models.TaskStatusDone
	_, err := repo.UpdateStatus(ctx, seed.tasks[1].ID, done)
	require.NoError(t, err)

	tasks, total, err := repo.List(ctx, TaskFilter{ProjectID: &seed.project.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, tasks, 3)

	tasks, total, err = repo.List(ctx, TaskFilter{ProjectID: &seed.project.ID, Status: &done})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, seed.tasks[1].ID, tasks[0].ID)

	tasks, total, err = repo.List(ctx, TaskFilter{AssigneeID: &alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Assignment)
	assert.Equal(t, alice.ID, tasks[0].Assignment.UserID)

	tasks, total, err = repo.List(ctx, TaskFilter{
		TeamID: &seed.teams[0].ID,
		Page:   utils.PaginationParams{Page: 2, Limit: 1, Offset: 1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, seed.tasks[1].ID, tasks[0].ID)
}

func TestUpdateStatus_MissingTask(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	updated, err := NewTaskRepository(db).UpdateStatus(context.Background(), 99, models.TaskStatusDone)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestCountByProjectAndStatus(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	seed := seedProject(f)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	_, err := repo.UpdateStatus(ctx, seed.tasks[0].ID, models.TaskStatusInProgress)
	require.NoError(t, err)

	counts, err := repo.CountByProjectAndStatus(ctx, []uint64{seed.project.ID})
	require.NoError(t, err)

	byStatus := map[models.TaskStatus]int64{}
	for _, c := range counts {
		assert.Equal(t, seed.project.ID, c.ProjectID)
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, map[models.TaskStatus]int64{
		models.TaskStatusTodo:       2,
		models.TaskStatusInProgress: 1,
	}, byStatus)

	all, err := repo.CountByProjectAndStatus(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskDelete_DriverErrorRollsBack(t *testing.T) {
	db, mock := testutil.NewMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM .task_assignments. WHERE task_id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM .task_activity. WHERE task_id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM .tasks. WHERE .tasks.\\..id. = ?").
		WithArgs(5).
		WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	deleted, err := NewTaskRepository(db).Delete(context.Background(), 5)
	require.Error(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskDelete_RollsBackOnSQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	seed := seedProject(f)
	target := seed.tasks[0]

	injected := errors.New("injected failure")
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_task_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "tasks" {
			tx.AddError(injected)
		}
	}))

	deleted, err := NewTaskRepository(db).Delete(context.Background(), target.ID)
	assert.ErrorIs(t, err, injected)
	assert.False(t, deleted)

	assert.EqualValues(t, 1, f.Count(&models.Task{}, "id = ?", target.ID))
	assert.EqualValues(t, 1, f.Count(&models.TaskAssignment{}, "task_id = ?", target.ID))
	assert.EqualValues(t, 1, f.Count(&models.TaskActivity{}, "task_id = ?", target.ID))
}

func TestAssignTask_InsertErrorRollsBack(t *testing.T) {
	db, mock := testutil.NewMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM .task_assignments. WHERE task_id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO .task_assignments.").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := NewTaskRepository(db).AssignTask(context.Background(), 5, 8)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignTask_KeepsPreviousAssigneeOnFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	manager := f.User("manager@example.com")
	alice := f.User("alice@example.com")
	bob := f.User("bob@example.com")
	project := f.Project("Apollo", manager.ID)
	task := f.Task("Schema", project.ID, nil)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.AssignTask(ctx, task.ID, alice.ID))

	injected := errors.New("injected failure")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_assignment_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "task_assignments" {
			tx.AddError(injected)
		}
	}))

	assert.ErrorIs(t, repo.AssignTask(ctx, task.ID, bob.ID), injected)

	assignment, err := repo.FindAssignment(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, assignment.UserID)
	assert.EqualValues(t, 1, f.Count(&models.TaskAssignment{}, "task_id = ?", task.ID))
}
