package models

import "time"

// DailyTran represents daily_trans table - one day of reported price,
// volume and average weight for a product at a source
type DailyTran struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index:idx_daily_trans_product_date" json:"product_id"`
	SourceID  *uint     `gorm:"index" json:"source_id,omitempty"`
	Date      time.Time `gorm:"type:date;not null;index:idx_daily_trans_product_date" json:"date"`
	AvgPrice  float64   `gorm:"not null" json:"avg_price"`
	Volume    *float64  `json:"volume,omitempty"`
	AvgWeight *float64  `json:"avg_weight,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product *AbstractProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Source  *Source          `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

// TableName specifies the table name for DailyTran
func (DailyTran) TableName() string {
	return "daily_trans"
}
