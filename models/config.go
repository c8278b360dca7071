package models

import "time"

// Config represents configs table - the top level of the catalog hierarchy.
// TypeLevel tells the navigator at which product depth the Type split happens.
type Config struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;unique" json:"name"`
	Code      *string   `gorm:"type:varchar(50);unique" json:"code,omitempty"`
	TypeLevel int       `gorm:"default:1" json:"type_level"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Charts []Chart `gorm:"many2many:config_charts" json:"charts,omitempty"`
}

// TableName specifies the table name for Config
func (Config) TableName() string {
	return "configs"
}
