package models

import "time"

// WorkingHours overrides the tenant opening hours for one resource and weekday.
type WorkingHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ResourceID uint `gorm:"not null;uniqueIndex:idx_working_hours_resource_weekday,priority:1" json:"resource_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_resource_weekday,priority:2" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
