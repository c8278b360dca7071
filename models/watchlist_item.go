package models

import "time"

// WatchlistItem represents watchlist_items table - one watched product
// with the sources it should be monitored at
type WatchlistItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	WatchlistID uint      `gorm:"not null;index" json:"watchlist_id"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Product   *AbstractProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Watchlist *Watchlist       `gorm:"foreignKey:WatchlistID" json:"watchlist,omitempty"`
	Sources   []Source         `gorm:"many2many:watchlist_item_sources" json:"sources,omitempty"`
}

// TableName specifies the table name for WatchlistItem
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
