package services

import (
	"context"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamMembership(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	manager := env.fixtures.User("manager@example.com")
	alice := env.fixtures.User("alice@example.com")
	project := env.fixtures.Project("Apollo", manager.ID)

	team, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: "Backend", ProjectID: &project.ID})
	require.NoError(t, err)

	require.NoError(t, env.team.AddMember(ctx, team.ID, alice.ID))
	assert.ErrorIs(t, env.team.AddMember(ctx, team.ID, alice.ID), ErrAlreadyMember)
	assert.ErrorIs(t, env.team.AddMember(ctx, team.ID, 9999), ErrUserNotFound)

	assert.ErrorIs(t, env.team.SetLeader(ctx, team.ID, manager.ID), ErrMemberNotFound)
	require.NoError(t, env.team.SetLeader(ctx, team.ID, alice.ID))

	loaded, err := env.team.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Members, 1)
	assert.True(t, loaded.Members[0].IsLeader)

	require.NoError(t, env.team.RemoveMember(ctx, team.ID, alice.ID))
	assert.ErrorIs(t, env.team.RemoveMember(ctx, team.ID, alice.ID), ErrMemberNotFound)
}

func TestMoveUser(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	manager := env.fixtures.User("manager@example.com")
	alice := env.fixtures.User("alice@example.com")
	project := env.fixtures.Project("Apollo", manager.ID)
	team1 := env.fixtures.Team("Backend", project.ID)
	team2 := env.fixtures.Team("Frontend", project.ID)

	member, err := env.team.MoveUser(ctx, alice.ID, team1.ID)
	require.NoError(t, err)
	assert.Equal(t, team1.ID, member.TeamID)

	member, err = env.team.MoveUser(ctx, alice.ID, team2.ID)
	require.NoError(t, err)
	assert.Equal(t, team2.ID, member.TeamID)
	assert.False(t, member.IsLeader)
	assert.EqualValues(t, 1, env.fixtures.Count(&models.TeamMember{}, "user_id = ?", alice.ID))

	_, err = env.team.MoveUser(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamCrud(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	manager := env.fixtures.User("manager@example.com")
	project := env.fixtures.Project("Apollo", manager.ID)

	_, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: ""})
	assert.ErrorIs(t, err, ErrTeamNameRequired)
	missing := uint64(777)
	_, err = env.team.CreateTeam(ctx, CreateTeamInput{Name: "x", ProjectID: &missing})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	team, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: "Backend"})
	require.NoError(t, err)
	assert.Nil(t, team.ProjectID)

	name := "Platform"
	team, err = env.team.UpdateTeam(ctx, team.ID, UpdateTeamInput{Name: &name, ProjectID: &project.ID})
	require.NoError(t, err)
	assert.Equal(t, "Platform", team.TeamName)

	teams, err := env.team.ListProjectTeams(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	require.NoError(t, env.team.DeleteTeam(ctx, team.ID))
	assert.ErrorIs(t, env.team.DeleteTeam(ctx, team.ID), ErrTeamNotFound)
}

func TestMovedTeamDoesNotBlockProjectDelete(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	admin := env.userWithRole(t, "admin@example.com", models.RoleAdmin)
	origin := env.fixtures.Project("Apollo", admin.ID)
	target := env.fixtures.Project("Gemini", admin.ID)
	team := env.fixtures.Team("Backend", origin.ID)
	task := env.fixtures.Task("Schema", origin.ID, &team.ID)

	_, err := env.team.UpdateTeam(ctx, team.ID, UpdateTeamInput{ProjectID: &target.ID})
	require.NoError(t, err)

	require.NoError(t, env.project.DeleteProject(ctx, admin, target.ID))

	reloaded, err := env.task.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TeamID)
	assert.Equal(t, origin.ID, reloaded.ProjectID)
	_, err = env.team.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
