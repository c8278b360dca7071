package models

import "time"

// Source represents sources table - terminal navigation level
// (markets or origins a product's transactions are reported from)
type Source struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Alias     *string   `gorm:"type:varchar(255)" json:"alias,omitempty"`
	Code      *string   `gorm:"type:varchar(50)" json:"code,omitempty"`
	TypeID    *uint     `gorm:"index" json:"type_id,omitempty"`
	Enable    bool      `gorm:"default:true" json:"enable"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Type    *Type    `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Configs []Config `gorm:"many2many:source_configs" json:"configs,omitempty"`
}

// TableName specifies the table name for Source
func (Source) TableName() string {
	return "sources"
}
