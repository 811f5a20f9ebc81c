package dto

import (
	"strings"
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	Email    string  `json:"email"`
	Role     string  `json:"role,omitempty"`
	GroupID  *uint64 `json:"group_id,omitempty"`
}

// UserRefDTO is the short form of a user embedded in other resources
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// RoleDTO represents a role with its permissions
type RoleDTO struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// GroupDTO represents a user group
type GroupDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SettingsDTO represents user preferences
type SettingsDTO struct {
	Theme              string     `json:"theme"`
	DefaultView        string     `json:"default_view"`
	LastPasswordChange *time.Time `json:"last_password_change"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
		GroupID:  user.GroupID,
	}
	if user.Role != nil {
		dto.Role = user.Role.RoleName
	}
	return dto
}

// ToUserRefDTO converts a User model to its short form
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{ID: user.ID, FullName: user.FullName()}
}

// ToUserListResponse converts a page of users
func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	permissions := []string{}
	for _, p := range strings.Split(role.Permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			permissions = append(permissions, p)
		}
	}
	return RoleDTO{ID: role.ID, Name: role.RoleName, Permissions: permissions}
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group) GroupDTO {
	return GroupDTO{ID: group.ID, Name: group.GroupName, Description: group.Description}
}

// ToSettingsDTO converts a Settings model to SettingsDTO
func ToSettingsDTO(settings models.Settings) SettingsDTO {
	return SettingsDTO{
		Theme:              settings.Theme,
		DefaultView:        settings.DefaultView,
		LastPasswordChange: settings.LastPasswordChange,
	}
}
