package models

import "time"

// Type represents types table (e.g. wholesale vs. origin price partitions)
type Type struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;unique" json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Type
func (Type) TableName() string {
	return "types"
}
