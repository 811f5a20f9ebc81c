package models

import "time"

type Project struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	ProjectName string     `gorm:"type:varchar(255);not null" json:"project_name"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ManagerID   uint64     `gorm:"not null;index" json:"manager_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Manager *User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}
