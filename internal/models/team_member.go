package models

type TeamMember struct {
	TeamID   uint64 `gorm:"primarykey;autoIncrement:false" json:"team_id"`
	UserID   uint64 `gorm:"primarykey;autoIncrement:false;index" json:"user_id"`
	IsLeader bool   `gorm:"not null;default:false" json:"is_leader"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
