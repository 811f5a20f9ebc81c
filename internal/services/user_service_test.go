package services

import (
	"context"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUser(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	alice := env.fixtures.User("alice@example.com")
	env.fixtures.User("bob@example.com")

	group, err := env.user.CreateGroup(ctx, "Engineering", "")
	require.NoError(t, err)
	_, err = env.user.CreateGroup(ctx, "Engineering", "")
	assert.ErrorIs(t, err, ErrGroupExists)

	adminRole := env.fixtures.Role(models.RoleAdmin)
	updated, err := env.user.UpdateUser(ctx, alice.ID, UpdateUserInput{RoleID: &adminRole.ID, GroupID: &group.ID})
	require.NoError(t, err)
	assert.True(t, updated.Can(models.PermissionManageUsers))
	require.NotNil(t, updated.GroupID)

	taken := "bob@example.com"
	_, err = env.user.UpdateUser(ctx, alice.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	missing := uint64(404)
	_, err = env.user.UpdateUser(ctx, alice.ID, UpdateUserInput{RoleID: &missing})
	assert.ErrorIs(t, err, ErrRoleNotFound)
	_, err = env.user.UpdateUser(ctx, alice.ID, UpdateUserInput{GroupID: &missing})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	roles, err := env.user.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	users, total, err := env.user.ListUsers(ctx, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestDeleteUser(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	admin := env.fixtures.User("admin@example.com")
	manager := env.fixtures.User("manager@example.com")
	alice := env.fixtures.User("alice@example.com")
	env.fixtures.Project("Apollo", manager.ID)

	assert.ErrorIs(t, env.user.DeleteUser(ctx, admin.ID, admin.ID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, env.user.DeleteUser(ctx, manager.ID, admin.ID), ErrUserManagesProjects)
	require.NoError(t, env.user.DeleteUser(ctx, alice.ID, admin.ID))
	assert.ErrorIs(t, env.user.DeleteUser(ctx, alice.ID, admin.ID), ErrUserNotFound)
}

func TestSettings(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()
	alice := env.fixtures.User("alice@example.com")

	settings, err := env.user.GetSettings(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)

	dark, tasks := "dark", "tasks"
	settings, err = env.user.UpdateSettings(ctx, alice.ID, UpdateSettingsInput{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)

	settings, err = env.user.UpdateSettings(ctx, alice.ID, UpdateSettingsInput{DefaultView: &tasks})
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "tasks", settings.DefaultView)

	neon := "neon"
	_, err = env.user.UpdateSettings(ctx, alice.ID, UpdateSettingsInput{Theme: &neon})
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestRolesAndGroups(t *testing.T) {
	env := newServiceEnv(t, nil)
	ctx := context.Background()

	roles, err := env.user.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	_, err = env.user.CreateGroup(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrGroupNameRequired)

	group, err := env.user.CreateGroup(ctx, " Design ", "ui folks")
	require.NoError(t, err)
	assert.Equal(t, "Design", group.GroupName)

	_, err = env.user.CreateGroup(ctx, "Design", "")
	assert.ErrorIs(t, err, ErrGroupExists)

	groups, err := env.user.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)
}
