package models

import "time"

// Comparator values for MonitorProfile
const (
	ComparatorLT  = "lt"
	ComparatorLTE = "lte"
	ComparatorGT  = "gt"
	ComparatorGTE = "gte"
)

// MonitorProfile represents monitor_profiles table - a price threshold
// attached to a watched product
type MonitorProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	WatchlistID   uint      `gorm:"not null;index" json:"watchlist_id"`
	TypeID        *uint     `json:"type_id,omitempty"`
	Price         float64   `gorm:"not null" json:"price"`
	Comparator    string    `gorm:"type:varchar(6);default:lt" json:"comparator"`
	Color         string    `gorm:"type:varchar(20);default:danger" json:"color"`
	Info          *string   `gorm:"type:text" json:"info,omitempty"`
	Action        *string   `gorm:"type:text" json:"action,omitempty"`
	Period        *string   `gorm:"type:text" json:"period,omitempty"`
	IsActive      bool      `gorm:"default:false" json:"is_active"`
	AlwaysDisplay bool      `gorm:"default:false" json:"always_display"`
	Row           *int      `json:"row,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Product   *AbstractProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Watchlist *Watchlist       `gorm:"foreignKey:WatchlistID" json:"watchlist,omitempty"`
	Type      *Type            `gorm:"foreignKey:TypeID" json:"type,omitempty"`
}

// TableName specifies the table name for MonitorProfile
func (MonitorProfile) TableName() string {
	return "monitor_profiles"
}

// ActiveCompare reports whether price trips this profile's threshold
func (m *MonitorProfile) ActiveCompare(price float64) bool {
	switch m.Comparator {
	case ComparatorGT:
		return price > m.Price
	case ComparatorGTE:
		return price >= m.Price
	case ComparatorLT:
		return price < m.Price
	case ComparatorLTE:
		return price <= m.Price
	}
	return false
}
