package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/projectdesk/projectdesk/internal/dto"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	manager := api.login(t, "manager@example.com", models.RoleManager)
	member := api.login(t, "member@example.com", models.RoleMember)
	project := api.fixtures.Project("Apollo", manager.user.ID)

	w := member.do(t, http.MethodPost, "/api/teams", map[string]any{"name": "Core"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = manager.do(t, http.MethodPost, "/api/teams", map[string]any{
		"name":       "Core",
		"project_id": project.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	team := decode[dto.TeamDTO](t, w)
	require.NotNil(t, team.ProjectID)
	assert.Equal(t, project.ID, *team.ProjectID)

	membersPath := fmt.Sprintf("/api/teams/%d/members", team.ID)
	w = manager.do(t, http.MethodPost, membersPath, map[string]any{"user_id": member.user.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = manager.do(t, http.MethodPost, membersPath, map[string]any{"user_id": member.user.ID})
	require.Equal(t, http.StatusConflict, w.Code)

	w = manager.do(t, http.MethodPost, fmt.Sprintf("/api/teams/%d/leader", team.ID), map[string]any{"user_id": member.user.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = member.do(t, http.MethodGet, membersPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[struct {
		Members []dto.TeamMemberDTO `json:"members"`
	}](t, w)
	require.Len(t, members.Members, 1)
	assert.True(t, members.Members[0].IsLeader)

	w = manager.do(t, http.MethodPut, fmt.Sprintf("/api/teams/%d", team.ID), map[string]any{
		"name":          "Core Platform",
		"clear_project": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	renamed := decode[dto.TeamDTO](t, w)
	assert.Equal(t, "Core Platform", renamed.Name)
	assert.Nil(t, renamed.ProjectID)

	w = manager.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, member.user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = manager.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, member.user.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_SetLeaderRequiresMembership(t *testing.T) {
	api := newTestAPI(t, nil)
	manager := api.login(t, "manager@example.com", models.RoleManager)
	outsider := api.fixtures.User("outsider@example.com")
	team := api.fixtures.Team("Core", api.fixtures.Project("Apollo", manager.user.ID).ID)

	w := manager.do(t, http.MethodPost, fmt.Sprintf("/api/teams/%d/leader", team.ID), map[string]any{"user_id": outsider.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_DeleteKeepsTasks(t *testing.T) {
	api := newTestAPI(t, nil)
	manager := api.login(t, "manager@example.com", models.RoleManager)
	project := api.fixtures.Project("Apollo", manager.user.ID)
	team := api.fixtures.Team("Core", project.ID)
	task := api.fixtures.Task("Build", project.ID, &team.ID)

	w := manager.do(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Task
	require.NoError(t, api.db.First(&reloaded, task.ID).Error)
	assert.Nil(t, reloaded.TeamID)

	w = manager.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
