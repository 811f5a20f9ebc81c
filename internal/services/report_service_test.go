package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildProjectSummary(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	manager := env.fixtures.User("manager@example.com")
	alice := env.fixtures.User("alice@example.com")
	project := env.fixtures.Project("Apollo", manager.ID)
	teamA := env.fixtures.Team("Backend", project.ID)
	teamB := env.fixtures.Team("Frontend", project.ID)
	env.fixtures.Member(teamA.ID, alice.ID)
	env.fixtures.Member(teamB.ID, alice.ID)
	env.fixtures.Member(teamB.ID, manager.ID)
	env.fixtures.Task("one", project.ID, nil)
	done := env.fixtures.Task("two", project.ID, nil)
	_, err := env.tasks.UpdateStatus(ctx, done.ID, models.TaskStatusDone)
	require.NoError(t, err)
	empty := env.fixtures.Project("Empty", manager.ID)

	summaries, err := env.report.BuildProjectSummary(ctx, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	apollo := summaries[0]
	assert.Equal(t, "Apollo", apollo.ProjectName)
	assert.Equal(t, "Test User", apollo.Manager)
	assert.EqualValues(t, 1, apollo.Todo)
	assert.EqualValues(t, 1, apollo.Done)
	assert.EqualValues(t, 2, apollo.Total)
	assert.Equal(t, 2, apollo.Teams)
	assert.Equal(t, 2, apollo.Members)

	assert.Equal(t, empty.ID, summaries[1].ProjectID)
	assert.Zero(t, summaries[1].Total)

	_, err = env.report.BuildProjectSummary(ctx, []uint64{9999})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestExportReport(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	manager := env.fixtures.User("manager@example.com")
	project := env.fixtures.Project("Apollo", manager.ID)
	task := env.fixtures.Task("one", project.ID, nil)
	env.fixtures.Activity(task.ID, manager.ID, models.ActivityCreated)

	_, err := env.report.Export(ctx, ExportInput{Name: " ", ActorID: manager.ID})
	assert.ErrorIs(t, err, ErrReportNameRequired)

	report, err := env.report.Export(ctx, ExportInput{Name: "Weekly", ProjectIDs: []uint64{project.ID}, ActorID: manager.ID})
	require.NoError(t, err)
	assert.Equal(t, ReportTypeProjectSummary, report.ReportType)
	assert.Equal(t, fmt.Sprintf("projects:%d", project.ID), report.ReportScope)

	f, err := excelize.OpenFile(report.ExportedFile)
	require.NoError(t, err)
	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Project", rows[0][1])
	assert.Equal(t, "Apollo", rows[1][1])
	activity, err := f.GetRows(activitySheet)
	require.NoError(t, err)
	assert.Len(t, activity, 2)
	require.NoError(t, f.Close())

	reports, total, err := env.report.ListReports(ctx, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reports, 1)

	require.NoError(t, env.report.DeleteReport(ctx, report.ID))
	_, err = os.Stat(report.ExportedFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, env.report.DeleteReport(ctx, report.ID), ErrReportNotFound)
}
