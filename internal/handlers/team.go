package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/dto"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

type teamRequest struct {
	Name         *string `json:"name"`
	ProjectID    *uint64 `json:"project_id"`
	ClearProject bool    `json:"clear_project"`
}

type memberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// CreateTeam creates a team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		Name:      *req.Name,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// GetTeam returns a team with its members
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// UpdateTeam renames a team or moves it between projects
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), teamID, services.UpdateTeamInput{
		Name:         req.Name,
		ProjectID:    req.ProjectID,
		ClearProject: req.ClearProject,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam removes a team; its tasks stay in the project without a team
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), teamID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// ListMembers lists the members of a team
func (h *TeamHandler) ListMembers(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(c.Request.Context(), teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToTeamMemberDTOs(members),
	})
}

// AddMember adds a user to a team
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.teamService.AddMember(c.Request.Context(), teamID, req.UserID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Member added",
	})
}

// RemoveMember removes a user from a team
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id", "user ID")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed",
	})
}

// SetLeader makes a member the team leader
func (h *TeamHandler) SetLeader(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "team ID")
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.teamService.SetLeader(c.Request.Context(), teamID, req.UserID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Leader updated",
	})
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTeamNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	default:
		respondUnexpected(c, err)
	}
}
