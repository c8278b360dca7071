package models

import "time"

// Chart ids and their fixed meanings. Chart rows are seeded with these
// ids and the series engine dispatches on them.
const (
	ChartDaily        uint = 1 // daily price/volume, rolling 14-day window
	ChartDailyRange   uint = 2 // daily price/volume, caller window
	ChartYearly       uint = 3 // yearly price distribution
	ChartMonthlyDist  uint = 4 // monthly price distribution over years
	ChartIntegration  uint = 5 // integration/index chart with event overlay
)

// Chart represents charts table
type Chart struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(120);not null;unique" json:"name"`
	Code         *string   `gorm:"type:varchar(50);unique" json:"code,omitempty"`
	TemplateName string    `gorm:"type:varchar(255)" json:"template_name"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Chart
func (Chart) TableName() string {
	return "charts"
}
