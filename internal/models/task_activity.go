package models

import "time"

type ActivityType string

const (
	ActivityCreated       ActivityType = "created"
	ActivityUpdated       ActivityType = "updated"
	ActivityStatusChanged ActivityType = "status_changed"
	ActivityAssigned      ActivityType = "assigned"
	ActivityUnassigned    ActivityType = "unassigned"
)

// TaskActivity is an append-only audit row. Rows are only removed together
// with their task.
type TaskActivity struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	TaskID       uint64       `gorm:"not null;index" json:"task_id"`
	UserID       uint64       `gorm:"not null;index" json:"user_id"`
	ActivityType ActivityType `gorm:"type:varchar(50);not null" json:"activity_type"`
	Description  string       `gorm:"type:text" json:"description"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (TaskActivity) TableName() string {
	return "task_activity"
}
