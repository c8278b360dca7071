package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/agridash/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	// Set search path to agridash schema
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS agridash").Error; err != nil {
		log.Printf("Warning: Could not create schema: %v", err)
	}

	if err := db.Exec("SET search_path TO agridash").Error; err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	// Get all models in dependency order
	allModels := models.AllModels()

	// First pass: Create all tables WITHOUT foreign keys
	log.Println("Creating tables without foreign keys...")
	migrator := db.Migrator()

	for _, model := range allModels {
		tableName := migrator.CurrentDatabase()
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if !migrator.HasTable(model) {
			if err := migrator.CreateTable(model); err != nil {
				log.Printf("  ⚠ Warning: Could not create table %s: %v", tableName, err)
				continue
			}
			log.Printf("  ✓ Created table: %s", tableName)
		} else {
			log.Printf("  ✓ Table already exists: %s", tableName)
		}
	}

	// Second pass: Create foreign key constraints manually
	log.Println("Creating foreign key constraints...")
	if err := CreateForeignKeys(db); err != nil {
		log.Printf("Warning: Some foreign keys could not be created: %v", err)
	}

	// Create indexes
	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CheckConnection verifies the database connection and schema
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Check if agridash schema exists
	var schemaExists bool
	err = db.Raw("SELECT EXISTS(SELECT 1 FROM information_schema.schemata WHERE schema_name = 'agridash')").Scan(&schemaExists).Error
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}

	if !schemaExists {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS agridash").Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		log.Println("Created 'agridash' schema")
	}

	return nil
}

// CreateForeignKeys creates all foreign key constraints
func CreateForeignKeys(db *gorm.DB) error {
	foreignKeys := []struct {
		table     string
		name      string
		column    string
		refTable  string
		refColumn string
	}{
		// Catalog relationships
		{"abstract_products", "fk_abstract_products_config", "config_id", "configs", "id"},
		{"abstract_products", "fk_abstract_products_type", "type_id", "types", "id"},
		{"abstract_products", "fk_abstract_products_unit", "unit_id", "units", "id"},
		{"abstract_products", "fk_abstract_products_parent", "parent_id", "abstract_products", "id"},
		{"sources", "fk_sources_type", "type_id", "types", "id"},

		// Watchlist relationships
		{"watchlist_items", "fk_watchlist_items_product", "product_id", "abstract_products", "id"},
		{"watchlist_items", "fk_watchlist_items_watchlist", "watchlist_id", "watchlists", "id"},
		{"monitor_profiles", "fk_monitor_profiles_product", "product_id", "abstract_products", "id"},
		{"monitor_profiles", "fk_monitor_profiles_watchlist", "watchlist_id", "watchlists", "id"},
		{"monitor_profiles", "fk_monitor_profiles_type", "type_id", "types", "id"},

		// Transaction data
		{"daily_trans", "fk_daily_trans_product", "product_id", "abstract_products", "id"},
		{"daily_trans", "fk_daily_trans_source", "source_id", "sources", "id"},
	}

	for _, fk := range foreignKeys {
		// Check if foreign key already exists
		var count int64
		db.Raw(`
			SELECT COUNT(*) FROM information_schema.table_constraints
			WHERE constraint_type = 'FOREIGN KEY'
			AND table_schema = 'agridash'
			AND table_name = ?
			AND constraint_name = ?
		`, fk.table, fk.name).Scan(&count)

		if count > 0 {
			log.Printf("  ✓ Foreign key already exists: %s", fk.name)
			continue
		}

		query := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			fk.table, fk.name, fk.column, fk.refTable, fk.refColumn,
		)

		if err := db.Exec(query).Error; err != nil {
			log.Printf("  ⚠ Failed to create foreign key %s: %v", fk.name, err)
		} else {
			log.Printf("  ✓ Created foreign key: %s", fk.name)
		}
	}

	return nil
}

// CreateIndexes creates performance indexes
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Catalog indexes
		{"idx_products_config", "CREATE INDEX IF NOT EXISTS idx_products_config ON abstract_products(config_id)"},
		{"idx_products_parent", "CREATE INDEX IF NOT EXISTS idx_products_parent ON abstract_products(parent_id)"},
		{"idx_products_type", "CREATE INDEX IF NOT EXISTS idx_products_type ON abstract_products(type_id)"},
		{"idx_products_track", "CREATE INDEX IF NOT EXISTS idx_products_track ON abstract_products(track_item)"},
		{"idx_sources_type", "CREATE INDEX IF NOT EXISTS idx_sources_type ON sources(type_id)"},

		// Watchlist indexes
		{"idx_watchlist_items_parent", "CREATE INDEX IF NOT EXISTS idx_watchlist_items_parent ON watchlist_items(watchlist_id)"},
		{"idx_monitor_profiles_watchlist", "CREATE INDEX IF NOT EXISTS idx_monitor_profiles_watchlist ON monitor_profiles(watchlist_id)"},

		// Transaction indexes
		{"idx_daily_trans_date", "CREATE INDEX IF NOT EXISTS idx_daily_trans_date ON daily_trans(date)"},
		{"idx_daily_trans_source", "CREATE INDEX IF NOT EXISTS idx_daily_trans_source ON daily_trans(source_id)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				log.Printf("  ⚠ Failed to create index %s: %v", idx.name, err)
			}
		} else {
			log.Printf("  ✓ Created index: %s", idx.name)
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}
