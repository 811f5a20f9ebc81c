package models

type Group struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	GroupName   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"group_name"`
	Description string `gorm:"type:text" json:"description"`
}
