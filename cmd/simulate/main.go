package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/agridash/config"
	"github.com/agridash/database"
	"github.com/agridash/models"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	var (
		startDate  = flag.String("start", "2026-07-01", "Simulation start date (YYYY-MM-DD)")
		endDate    = flag.String("end", "2026-08-30", "Simulation end date (YYYY-MM-DD)")
		clear      = flag.Bool("clear", false, "Clear existing transactions in the period before running")
		seed       = flag.Bool("seed", false, "Run initial seed if database is empty")
		noQueryLog = flag.Bool("no-query-log", false, "Disable query logging during simulation")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.InitializeWithOptions(&cfg.Database, *noQueryLog); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	log.Println("✅ Connected to database successfully")

	// Set search path
	if err := db.Exec("SET search_path TO agridash").Error; err != nil {
		log.Printf("Warning: Could not set search path: %v", err)
	}

	// Check if initial seed is needed
	if *seed {
		var configCount int64
		db.Model(&models.Config{}).Count(&configCount)

		if configCount == 0 {
			log.Println("Database is empty, running initial seed...")
			if err := database.SeedData(db); err != nil {
				log.Fatalf("Failed to seed initial data: %v", err)
			}
			log.Println("✅ Initial seed completed")
		} else {
			log.Printf("Database already has %d configs, skipping seed", configCount)
		}
	}

	// Parse dates
	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}

	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	if end.Before(start) {
		log.Fatalf("End date must be after start date")
	}

	// Clear existing data in the period if requested
	if *clear {
		res := db.Where("date BETWEEN ? AND ?", start, end).Delete(&models.DailyTran{})
		if res.Error != nil {
			log.Fatalf("Failed to clear transactions: %v", res.Error)
		}
		log.Printf("✅ Cleared %d existing transactions in the period", res.RowsAffected)
	} else if hasExistingData(db, start, end) {
		log.Println("⚠️  Warning: Transactions already exist for this period.")
		log.Println("   Use -clear flag to remove existing data before running.")
	}

	// Run simulation
	log.Printf("Starting simulation from %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	if err := database.RunSimulation(db, start, end); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	log.Println("✅ Simulation completed successfully!")
	printStatistics(db, start, end)
}

// hasExistingData checks if transactions already exist for the period
func hasExistingData(db *gorm.DB, start, end time.Time) bool {
	var count int64
	db.Model(&models.DailyTran{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&count)
	return count > 0
}

func printStatistics(db *gorm.DB, start, end time.Time) {
	var total int64
	db.Model(&models.DailyTran{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&total)

	type productStat struct {
		Name  string
		Count int64
	}
	var stats []productStat
	db.Model(&models.DailyTran{}).
		Select("abstract_products.name AS name, COUNT(*) AS count").
		Joins("JOIN abstract_products ON abstract_products.id = daily_trans.product_id").
		Where("daily_trans.date BETWEEN ? AND ?", start, end).
		Group("abstract_products.name").
		Order("count DESC").
		Scan(&stats)

	fmt.Println("\n📊 Simulation Statistics:")
	fmt.Printf("  Total transactions: %d\n", total)
	for _, s := range stats {
		fmt.Printf("  %-25s: %d rows\n", s.Name, s.Count)
	}
}
