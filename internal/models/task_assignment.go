package models

import (
	"time"
)

// TaskAssignment binds a task to its single assignee.
type TaskAssignment struct {
	TaskID     uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	UserID     uint64    `gorm:"primarykey;autoIncrement:false;index" json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
