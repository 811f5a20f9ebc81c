package repository

import (
	"context"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/testutil"
	"github.com/projectdesk/projectdesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_AppendAndList(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	user := f.User("alice@example.com")
	project := f.Project("Apollo", user.ID)
	task := f.Task("Schema", project.ID, nil)
	other := f.Task("API", project.ID, nil)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for _, kind := range []models.ActivityType{models.ActivityCreated, models.ActivityAssigned, models.ActivityStatusChanged} {
		require.NoError(t, repo.Append(ctx, &models.TaskActivity{TaskID: task.ID, UserID: user.ID, ActivityType: kind}))
	}
	require.NoError(t, repo.Append(ctx, &models.TaskActivity{TaskID: other.ID, UserID: user.ID, ActivityType: models.ActivityCreated}))

	activities, err := repo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	assert.Equal(t, models.ActivityCreated, activities[0].ActivityType)
	assert.Equal(t, models.ActivityStatusChanged, activities[2].ActivityType)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, other.ID, recent[0].TaskID)
}

func TestReports_CreateListDelete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	user := f.User("alice@example.com")
	repo := NewReportRepository(db)
	ctx := context.Background()

	report := &models.Report{ReportName: "Weekly", ReportType: "project_summary", ReportScope: "all", CreatedBy: user.ID}
	require.NoError(t, repo.Create(ctx, report))

	reports, total, err := repo.List(ctx, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reports, 1)

	deleted, err := repo.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.FindByID(ctx, report.ID)
	assert.True(t, IsNotFound(err))
}
