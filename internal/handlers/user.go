package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/dto"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
	teamService *services.TeamService
}

func NewUserHandler(userService *services.UserService, teamService *services.TeamService) *UserHandler {
	return &UserHandler{
		userService: userService,
		teamService: teamService,
	}
}

// ListUsers returns a page of users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}

// GetUser returns a single user
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser edits profile, role and group of a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Name       *string `json:"name"`
		LastName   *string `json:"last_name"`
		Email      *string `json:"email"`
		RoleID     *uint64 `json:"role_id"`
		GroupID    *uint64 `json:"group_id"`
		ClearGroup bool    `json:"clear_group"`
	}

	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, services.UpdateUserInput{
		Name:       req.Name,
		LastName:   req.LastName,
		Email:      req.Email,
		RoleID:     req.RoleID,
		GroupID:    req.GroupID,
		ClearGroup: req.ClearGroup,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user together with memberships, assignments and settings
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID, actorID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// MoveUser makes the given team the user's only team
func (h *UserHandler) MoveUser(c *gin.Context) {
	type MoveUserRequest struct {
		TeamID uint64 `json:"team_id" binding:"required"`
	}

	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	var req MoveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.teamService.MoveUser(c.Request.Context(), userID, req.TeamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// ListRoles returns every role
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}

	out := make([]dto.RoleDTO, len(roles))
	for i, role := range roles {
		out[i] = dto.ToRoleDTO(role)
	}
	c.JSON(http.StatusOK, gin.H{
		"roles": out,
	})
}

// ListGroups returns every group
func (h *UserHandler) ListGroups(c *gin.Context) {
	groups, err := h.userService.ListGroups(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}

	out := make([]dto.GroupDTO, len(groups))
	for i, group := range groups {
		out[i] = dto.ToGroupDTO(group)
	}
	c.JSON(http.StatusOK, gin.H{
		"groups": out,
	})
}

// CreateGroup creates a group
func (h *UserHandler) CreateGroup(c *gin.Context) {
	type CreateGroupRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.userService.CreateGroup(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group))
}

// GetMySettings returns the caller's settings
func (h *UserHandler) GetMySettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	settings, err := h.userService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsDTO(*settings))
}

// UpdateMySettings changes the caller's theme or default view
func (h *UserHandler) UpdateMySettings(c *gin.Context) {
	type UpdateSettingsRequest struct {
		Theme       *string `json:"theme"`
		DefaultView *string `json:"default_view"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.userService.UpdateSettings(c.Request.Context(), userID, services.UpdateSettingsInput{
		Theme:       req.Theme,
		DefaultView: req.DefaultView,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsDTO(*settings))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrGroupNameRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidTheme),
		errors.Is(err, services.ErrInvalidDefaultView):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrGroupExists),
		errors.Is(err, services.ErrUserManagesProjects):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.Forbidden(c, err.Error())
	default:
		respondUnexpected(c, err)
	}
}
