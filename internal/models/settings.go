package models

import "time"

type Settings struct {
	ID                 uint64     `gorm:"primarykey" json:"id"`
	UserID             uint64     `gorm:"uniqueIndex;not null" json:"user_id"`
	Theme              string     `gorm:"type:varchar(20);not null;default:'light'" json:"theme"`
	DefaultView        string     `gorm:"type:varchar(50);not null;default:'dashboard'" json:"default_view"`
	LastPasswordChange *time.Time `json:"last_password_change"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the values used before a user saves anything.
func DefaultSettings(userID uint64) Settings {
	return Settings{
		UserID:      userID,
		Theme:       "light",
		DefaultView: "dashboard",
	}
}
