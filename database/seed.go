package database

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/agridash/models"
	"gorm.io/gorm"
)

// SeedData seeds a small but complete catalog into empty tables:
// units, types, charts, configs with their product trees, sources,
// watchlists and a month of daily transactions.
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	var count int64
	db.Model(&models.Config{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data. Skipping seed.")
		return nil
	}

	log.Println("Database is empty. Starting seed process...")

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET search_path TO agridash").Error; err != nil {
			return fmt.Errorf("failed to set search path: %w", err)
		}

		unitMap, err := seedUnits(tx)
		if err != nil {
			return fmt.Errorf("failed to seed units: %w", err)
		}

		typeMap, err := seedTypes(tx)
		if err != nil {
			return fmt.Errorf("failed to seed types: %w", err)
		}

		charts, err := seedCharts(tx)
		if err != nil {
			return fmt.Errorf("failed to seed charts: %w", err)
		}

		if err := seedConfigs(tx, charts); err != nil {
			return fmt.Errorf("failed to seed configs: %w", err)
		}

		productMap, err := seedProducts(tx, unitMap, typeMap)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		sourceMap, err := seedSources(tx, typeMap)
		if err != nil {
			return fmt.Errorf("failed to seed sources: %w", err)
		}

		if err := seedWatchlists(tx, productMap, sourceMap, typeMap); err != nil {
			return fmt.Errorf("failed to seed watchlists: %w", err)
		}

		if err := seedDailyTrans(tx, productMap, sourceMap); err != nil {
			return fmt.Errorf("failed to seed daily transactions: %w", err)
		}

		log.Println("✅ Database seeded successfully!")
		return nil
	})
}

func seedUnits(tx *gorm.DB) (map[string]uint, error) {
	units := []models.Unit{
		{PriceUnit: strPtr("NTD/kg"), VolumeUnit: strPtr("kg")},
		{PriceUnit: strPtr("NTD/bird"), VolumeUnit: strPtr("bird"), WeightUnit: strPtr("kg")},
		{PriceUnit: strPtr("NTD/head"), VolumeUnit: strPtr("head"), WeightUnit: strPtr("kg")},
		{PriceUnit: strPtr("NTD/stem"), VolumeUnit: strPtr("stem")},
	}

	unitMap := make(map[string]uint)
	keys := []string{"kg", "bird", "head", "stem"}

	for i := range units {
		if err := tx.Create(&units[i]).Error; err != nil {
			return nil, err
		}
		unitMap[keys[i]] = units[i].ID
	}

	log.Printf("  ✓ Seeded %d units", len(units))
	return unitMap, nil
}

func seedTypes(tx *gorm.DB) (map[string]uint, error) {
	types := []models.Type{
		{ID: 1, Name: "Wholesale"},
		{ID: 2, Name: "Origin"},
	}

	typeMap := make(map[string]uint)
	for i := range types {
		if err := tx.Create(&types[i]).Error; err != nil {
			return nil, err
		}
		typeMap[types[i].Name] = types[i].ID
	}

	log.Printf("  ✓ Seeded %d types", len(types))
	return typeMap, nil
}

func seedCharts(tx *gorm.DB) ([]models.Chart, error) {
	charts := []models.Chart{
		{ID: models.ChartDaily, Name: "Daily price and volume", Code: strPtr("CT01"), TemplateName: "daily-price-volume"},
		{ID: models.ChartDailyRange, Name: "Daily price and volume by date range", Code: strPtr("CT02"), TemplateName: "daily-price-volume-range"},
		{ID: models.ChartYearly, Name: "Yearly price distribution", Code: strPtr("CT03"), TemplateName: "yearly-price-distribution"},
		{ID: models.ChartMonthlyDist, Name: "Monthly price distribution", Code: strPtr("CT04"), TemplateName: "monthly-price-distribution"},
		{ID: models.ChartIntegration, Name: "Price integration with events", Code: strPtr("CT05"), TemplateName: "price-integration"},
	}

	for i := range charts {
		if err := tx.Create(&charts[i]).Error; err != nil {
			return nil, err
		}
	}

	log.Printf("  ✓ Seeded %d charts", len(charts))
	return charts, nil
}

// seedConfigs creates the configs with the ids the substitution rule
// table refers to. Every config offers every chart except that hogs
// and rams also carry the integration chart.
func seedConfigs(tx *gorm.DB, charts []models.Chart) error {
	basic := charts[:4]

	configs := []models.Config{
		{ID: 1, Name: "Crops", Code: strPtr("COG01"), TypeLevel: 1, Charts: basic},
		{ID: 5, Name: "Flowers", Code: strPtr("COG05"), TypeLevel: 1, Charts: basic},
		{ID: 6, Name: "Fruits", Code: strPtr("COG06"), TypeLevel: 1, Charts: basic},
		{ID: 7, Name: "Vegetables", Code: strPtr("COG07"), TypeLevel: 1, Charts: basic},
		{ID: 8, Name: "Poultry", Code: strPtr("COG08"), TypeLevel: 1, Charts: basic},
		{ID: 13, Name: "Hogs", Code: strPtr("COG13"), TypeLevel: 2, Charts: charts},
	}

	for i := range configs {
		if err := tx.Create(&configs[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("  ✓ Seeded %d configs", len(configs))
	return nil
}

func seedProducts(tx *gorm.DB, unitMap, typeMap map[string]uint) (map[string]uint, error) {
	wholesale := typeMap["Wholesale"]
	origin := typeMap["Origin"]

	// Flowers: two tracked leaves plus an aggregate parent whose leaves
	// carry the parent marker in their names.
	products := []models.AbstractProduct{
		{Name: "Rose", Code: "FA001", ConfigID: uintPtr(5), TypeID: &wholesale, UnitID: uintPtr(unitMap["stem"]), TrackItem: true},
		{Name: "Lily", Code: "FA002", ConfigID: uintPtr(5), TypeID: &wholesale, UnitID: uintPtr(unitMap["stem"]), TrackItem: true},
		{Name: "Anthurium FB", Code: "FB0", ConfigID: uintPtr(5), TypeID: &wholesale, UnitID: uintPtr(unitMap["stem"]), TrackItem: false},

		// Crops: banana with wholesale and origin children
		{Name: "Banana", Code: "CA001", ConfigID: uintPtr(1), UnitID: uintPtr(unitMap["kg"]), TrackItem: false},

		// Poultry
		{Name: "White broiler", Code: "PA001", ConfigID: uintPtr(8), TypeID: &origin, UnitID: uintPtr(unitMap["bird"]), TrackItem: true},

		// Hogs: the config splits by type one level down
		{Name: "Hog (live)", Code: "HA001", ConfigID: uintPtr(13), UnitID: uintPtr(unitMap["head"]), TrackItem: false},
	}

	productMap := make(map[string]uint)
	for i := range products {
		if err := tx.Create(&products[i]).Error; err != nil {
			return nil, err
		}
		productMap[products[i].Name] = products[i].ID
	}

	children := []models.AbstractProduct{
		{Name: "Anthurium FB upward", Code: "FB1", ConfigID: uintPtr(5), TypeID: &wholesale, UnitID: uintPtr(unitMap["stem"]), ParentID: uintPtr(productMap["Anthurium FB"]), TrackItem: true},
		{Name: "Anthurium FB sideward", Code: "FB2", ConfigID: uintPtr(5), TypeID: &wholesale, UnitID: uintPtr(unitMap["stem"]), ParentID: uintPtr(productMap["Anthurium FB"]), TrackItem: true},

		{Name: "Banana (wholesale)", Code: "CA001W", ConfigID: uintPtr(1), TypeID: &wholesale, UnitID: uintPtr(unitMap["kg"]), ParentID: uintPtr(productMap["Banana"]), TrackItem: true},
		{Name: "Banana (origin)", Code: "CA001O", ConfigID: uintPtr(1), TypeID: &origin, UnitID: uintPtr(unitMap["kg"]), ParentID: uintPtr(productMap["Banana"]), TrackItem: true},

		{Name: "Hog (wholesale)", Code: "HA001W", ConfigID: uintPtr(13), TypeID: &wholesale, UnitID: uintPtr(unitMap["head"]), ParentID: uintPtr(productMap["Hog (live)"]), TrackItem: true},
		{Name: "Hog (origin)", Code: "HA001O", ConfigID: uintPtr(13), TypeID: &origin, UnitID: uintPtr(unitMap["head"]), ParentID: uintPtr(productMap["Hog (live)"]), TrackItem: true},
	}

	for i := range children {
		if err := tx.Create(&children[i]).Error; err != nil {
			return nil, err
		}
		productMap[children[i].Name] = children[i].ID
	}

	log.Printf("  ✓ Seeded %d products", len(products)+len(children))
	return productMap, nil
}

func seedSources(tx *gorm.DB, typeMap map[string]uint) (map[string]uint, error) {
	wholesale := typeMap["Wholesale"]
	origin := typeMap["Origin"]

	var flowerCfg, cropCfg, poultryCfg, hogCfg models.Config
	for id, cfg := range map[uint]*models.Config{5: &flowerCfg, 1: &cropCfg, 8: &poultryCfg, 13: &hogCfg} {
		if err := tx.First(cfg, id).Error; err != nil {
			return nil, err
		}
	}

	sources := []models.Source{
		{Name: "Taipei market", Alias: strPtr("taipei"), Code: strPtr("104"), TypeID: &wholesale, Enable: true,
			Configs: []models.Config{flowerCfg, cropCfg, hogCfg}},
		{Name: "Taichung market", Alias: strPtr("taichung"), Code: strPtr("400"), TypeID: &wholesale, Enable: true,
			Configs: []models.Config{flowerCfg, cropCfg}},
		{Name: "Pingtung farm", Alias: strPtr("pingtung"), Code: strPtr("900"), TypeID: &origin, Enable: true,
			Configs: []models.Config{cropCfg, poultryCfg, hogCfg}},
		{Name: "Closed market", Code: strPtr("999"), TypeID: &wholesale, Enable: false,
			Configs: []models.Config{cropCfg}},
	}

	sourceMap := make(map[string]uint)
	for i := range sources {
		if err := tx.Create(&sources[i]).Error; err != nil {
			return nil, err
		}
		sourceMap[sources[i].Name] = sources[i].ID
	}

	log.Printf("  ✓ Seeded %d sources", len(sources))
	return sourceMap, nil
}

func seedWatchlists(tx *gorm.DB, productMap, sourceMap, typeMap map[string]uint) error {
	now := time.Now()

	watchAll := models.Watchlist{
		Name:      "Full catalog",
		WatchAll:  true,
		StartDate: now.AddDate(-5, 0, 0),
		EndDate:   now.AddDate(1, 0, 0),
	}
	if err := tx.Create(&watchAll).Error; err != nil {
		return err
	}

	seasonal := models.Watchlist{
		Name:      "Summer focus",
		IsDefault: true,
		StartDate: now.AddDate(0, -3, 0),
		EndDate:   now.AddDate(0, 3, 0),
	}
	if err := tx.Create(&seasonal).Error; err != nil {
		return err
	}

	var taipei, pingtung models.Source
	if err := tx.First(&taipei, sourceMap["Taipei market"]).Error; err != nil {
		return err
	}
	if err := tx.First(&pingtung, sourceMap["Pingtung farm"]).Error; err != nil {
		return err
	}

	items := []models.WatchlistItem{
		{ProductID: productMap["Rose"], WatchlistID: seasonal.ID, Sources: []models.Source{taipei}},
		{ProductID: productMap["Banana (wholesale)"], WatchlistID: seasonal.ID, Sources: []models.Source{taipei}},
		{ProductID: productMap["Banana (origin)"], WatchlistID: seasonal.ID, Sources: []models.Source{pingtung}},
	}
	for i := range items {
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}

	wholesale := typeMap["Wholesale"]
	profiles := []models.MonitorProfile{
		{
			ProductID:   productMap["Banana (wholesale)"],
			WatchlistID: seasonal.ID,
			TypeID:      &wholesale,
			Price:       45,
			Comparator:  models.ComparatorGTE,
			Color:       "danger",
			Info:        strPtr("Wholesale banana over 45 NTD/kg"),
			IsActive:    true,
		},
		{
			ProductID:   productMap["Rose"],
			WatchlistID: seasonal.ID,
			TypeID:      &wholesale,
			Price:       10,
			Comparator:  models.ComparatorLT,
			Color:       "warning",
			Info:        strPtr("Rose under 10 NTD/stem"),
			IsActive:    true,
		},
	}
	for i := range profiles {
		if err := tx.Create(&profiles[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("  ✓ Seeded 2 watchlists, %d items, %d monitor profiles", len(items), len(profiles))
	return nil
}

// seedDailyTrans writes 30 days of synthetic prices for the tracked
// leaves. Prices follow a sine wave around a per-product base so the
// charts have visible shape; every third day at the second source is
// skipped to leave realistic gaps.
func seedDailyTrans(tx *gorm.DB, productMap, sourceMap map[string]uint) error {
	type series struct {
		product   string
		source    string
		basePrice float64
		baseVol   float64
		weight    *float64
	}

	all := []series{
		{"Rose", "Taipei market", 12, 3500, nil},
		{"Lily", "Taipei market", 18, 2100, nil},
		{"Anthurium FB upward", "Taichung market", 25, 800, nil},
		{"Banana (wholesale)", "Taipei market", 42, 9000, nil},
		{"Banana (origin)", "Pingtung farm", 28, 12000, nil},
		{"White broiler", "Pingtung farm", 80, 5000, floatPtr(1.9)},
		{"Hog (wholesale)", "Taipei market", 7200, 600, floatPtr(118)},
		{"Hog (origin)", "Pingtung farm", 6800, 450, floatPtr(121)},
	}

	end := time.Now().Truncate(24 * time.Hour)
	total := 0

	for _, s := range all {
		productID := productMap[s.product]
		sourceID := sourceMap[s.source]

		for day := 0; day < 30; day++ {
			if day%3 == 0 && s.source == "Taichung market" {
				continue
			}

			date := end.AddDate(0, 0, -day)
			wave := math.Sin(float64(day) / 5)
			tran := models.DailyTran{
				ProductID: productID,
				SourceID:  &sourceID,
				Date:      date,
				AvgPrice:  s.basePrice * (1 + 0.1*wave),
				Volume:    floatPtr(s.baseVol * (1 - 0.2*wave)),
				AvgWeight: s.weight,
			}
			if err := tx.Create(&tran).Error; err != nil {
				return err
			}
			total++
		}
	}

	log.Printf("  ✓ Seeded %d daily transactions", total)
	return nil
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(u uint) *uint {
	return &u
}

func floatPtr(f float64) *float64 {
	return &f
}
