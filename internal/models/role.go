package models

import "strings"

type Permission string

const (
	PermissionManageUsers    Permission = "manage_users"
	PermissionManageProjects Permission = "manage_projects"
	PermissionManageTeams    Permission = "manage_teams"
	PermissionExportReports  Permission = "export_reports"
)

// Built-in role names
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

type Role struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	RoleName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	// Permissions is a comma separated list of Permission values
	Permissions string `gorm:"type:varchar(255);not null;default:''" json:"permissions"`
}

// Has reports whether the role grants the permission.
func (r Role) Has(permission Permission) bool {
	for _, p := range strings.Split(r.Permissions, ",") {
		if Permission(strings.TrimSpace(p)) == permission {
			return true
		}
	}
	return false
}

// DefaultRoles are seeded on migration.
func DefaultRoles() []Role {
	return []Role{
		{RoleName: RoleAdmin, Permissions: "manage_users,manage_projects,manage_teams,export_reports"},
		{RoleName: RoleManager, Permissions: "manage_projects,manage_teams,export_reports"},
		{RoleName: RoleMember, Permissions: ""},
	}
}
