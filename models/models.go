package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Unit{},
		&Type{},
		&Chart{},
		&Config{},
		&Watchlist{},

		// 2. Catalog tables
		&AbstractProduct{}, // depends on: Config, Type, Unit, self
		&Source{},          // depends on: Type (+ config_charts/source_configs join tables)

		// 3. Watchlist tables
		&WatchlistItem{},  // depends on: Watchlist, AbstractProduct, Source
		&MonitorProfile{}, // depends on: Watchlist, AbstractProduct, Type

		// 4. Transaction data
		&DailyTran{}, // depends on: AbstractProduct, Source
	}
}
