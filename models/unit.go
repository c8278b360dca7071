package models

import "time"

// Unit represents units table
type Unit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PriceUnit  *string   `gorm:"type:varchar(50)" json:"price_unit,omitempty"`
	VolumeUnit *string   `gorm:"type:varchar(50)" json:"volume_unit,omitempty"`
	WeightUnit *string   `gorm:"type:varchar(50)" json:"weight_unit,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}
