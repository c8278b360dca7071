package models

import "time"

// AbstractProduct represents abstract_products table. Products form a
// self-recursive tree under a Config: aggregate parents carry
// TrackItem=false and the directly tracked leaves carry TrackItem=true.
type AbstractProduct struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Code      string    `gorm:"type:varchar(50);not null" json:"code"`
	ConfigID  *uint     `gorm:"index" json:"config_id,omitempty"`
	TypeID    *uint     `gorm:"index" json:"type_id,omitempty"`
	UnitID    *uint     `json:"unit_id,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	TrackItem bool      `gorm:"default:true" json:"track_item"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Config *Config          `gorm:"foreignKey:ConfigID" json:"config,omitempty"`
	Type   *Type            `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Unit   *Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Parent *AbstractProduct `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

// TableName specifies the table name for AbstractProduct
func (AbstractProduct) TableName() string {
	return "abstract_products"
}
