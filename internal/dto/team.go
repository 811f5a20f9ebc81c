package dto

import "github.com/projectdesk/projectdesk/internal/models"

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	ProjectID *uint64         `json:"project_id"`
	Members   []TeamMemberDTO `json:"members,omitempty"`
}

// TeamMemberDTO represents a member of a team
type TeamMemberDTO struct {
	TeamID   uint64      `json:"team_id"`
	UserID   uint64      `json:"user_id"`
	User     *UserRefDTO `json:"user,omitempty"`
	IsLeader bool        `json:"is_leader"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	dto := TeamDTO{
		ID:        team.ID,
		Name:      team.TeamName,
		ProjectID: team.ProjectID,
	}
	if len(team.Members) > 0 {
		dto.Members = ToTeamMemberDTOs(team.Members)
	}
	return dto
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	items := make([]TeamDTO, len(teams))
	for i, team := range teams {
		items[i] = ToTeamDTO(team)
	}
	return items
}

// ToTeamMemberDTO converts a TeamMember model to TeamMemberDTO
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	dto := TeamMemberDTO{
		TeamID:   member.TeamID,
		UserID:   member.UserID,
		IsLeader: member.IsLeader,
	}
	if member.User != nil {
		user := ToUserRefDTO(*member.User)
		dto.User = &user
	}
	return dto
}

// ToTeamMemberDTOs converts a slice of members
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	items := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		items[i] = ToTeamMemberDTO(member)
	}
	return items
}
