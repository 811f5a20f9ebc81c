package models

import "time"

// Report records an exported report file; the file content lives on disk.
type Report struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ReportName   string    `gorm:"type:varchar(255);not null" json:"report_name"`
	ReportType   string    `gorm:"type:varchar(50);not null" json:"report_type"`
	ReportScope  string    `gorm:"type:varchar(100);not null" json:"report_scope"`
	CreatedBy    uint64    `gorm:"not null;index" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	ExportedFile string    `gorm:"type:varchar(512)" json:"exported_file"`
}
