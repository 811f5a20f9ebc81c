package models

type Team struct {
	ID        uint64  `gorm:"primarykey" json:"id"`
	TeamName  string  `gorm:"type:varchar(255);not null" json:"team_name"`
	ProjectID *uint64 `gorm:"index" json:"project_id"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
