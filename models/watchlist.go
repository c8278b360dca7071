package models

import "time"

// Watchlist represents watchlists table - a user-curated subset of
// catalog leaves. WatchAll marks the list that covers the whole catalog.
type Watchlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null;unique" json:"name"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	WatchAll  bool      `gorm:"default:false" json:"watch_all"`
	StartDate time.Time `gorm:"type:date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Watchlist
func (Watchlist) TableName() string {
	return "watchlists"
}
