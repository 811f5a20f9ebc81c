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

func TestUserHandler_RequiresManageUsers(t *testing.T) {
	api := newTestAPI(t, nil)
	manager := api.login(t, "manager@example.com", models.RoleManager)

	w := manager.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_ListAndUpdate(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.login(t, "admin@example.com", models.RoleAdmin)
	member := api.login(t, "member@example.com", models.RoleMember)

	w := admin.do(t, http.MethodGet, "/api/users?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.UserListResponse](t, w)
	assert.Len(t, page.Users, 1)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	w = admin.do(t, http.MethodPost, "/api/groups", map[string]any{"name": "Engineering"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decode[dto.GroupDTO](t, w)

	w = admin.do(t, http.MethodPost, "/api/groups", map[string]any{"name": "Engineering"})
	require.Equal(t, http.StatusConflict, w.Code)

	managerRole := api.fixtures.Role(models.RoleManager)
	w = admin.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", member.user.ID), map[string]any{
		"last_name": "Lovelace",
		"role_id":   managerRole.ID,
		"group_id":  group.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.UserDTO](t, w)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, models.RoleManager, updated.Role)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, group.ID, *updated.GroupID)

	w = admin.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", member.user.ID), map[string]any{"role_id": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Delete(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.login(t, "admin@example.com", models.RoleAdmin)
	manager := api.login(t, "manager@example.com", models.RoleManager)
	member := api.login(t, "member@example.com", models.RoleMember)
	api.fixtures.Project("Apollo", manager.user.ID)

	w := admin.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.user.ID), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = admin.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", manager.user.ID), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = admin.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", member.user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = admin.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", member.user.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_MoveUser(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.login(t, "admin@example.com", models.RoleAdmin)
	member := api.login(t, "member@example.com", models.RoleMember)
	project := api.fixtures.Project("Apollo", admin.user.ID)
	from := api.fixtures.Team("Core", project.ID)
	to := api.fixtures.Team("Ops", project.ID)
	api.fixtures.Member(from.ID, member.user.ID)

	w := admin.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/team", member.user.ID), map[string]any{"team_id": to.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, to.ID, decode[dto.TeamMemberDTO](t, w).TeamID)
	assert.Equal(t, int64(1), api.fixtures.Count(&models.TeamMember{}, "user_id = ?", member.user.ID))

	w = admin.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/team", member.user.ID), map[string]any{"team_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_Settings(t *testing.T) {
	api := newTestAPI(t, nil)
	member := api.login(t, "member@example.com", models.RoleMember)

	w := member.do(t, http.MethodGet, "/api/me/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", decode[dto.SettingsDTO](t, w).Theme)

	w = member.do(t, http.MethodPut, "/api/me/settings", map[string]any{"theme": "dark", "default_view": "tasks"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	settings := decode[dto.SettingsDTO](t, w)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "tasks", settings.DefaultView)

	w = member.do(t, http.MethodPut, "/api/me/settings", map[string]any{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_ListRoles(t *testing.T) {
	api := newTestAPI(t, nil)
	member := api.login(t, "member@example.com", models.RoleMember)

	w := member.do(t, http.MethodGet, "/api/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Roles []dto.RoleDTO `json:"roles"`
	}](t, w)
	assert.Len(t, body.Roles, 3)
}
