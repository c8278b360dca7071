package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agridash/catalog"
	"github.com/agridash/chartcache"
	"github.com/agridash/config"
	"github.com/agridash/database"
	"github.com/agridash/series"
	"github.com/agridash/web"
)

func main() {
	// Command line flags
	var (
		migrate = flag.Bool("migrate", false, "Run database migration on startup")
		seed    = flag.Bool("seed", false, "Seed database with sample data")
		help    = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Check database connection and schema
	if err := database.CheckConnection(database.GetDB()); err != nil {
		log.Fatalf("Database connection check failed: %v", err)
	}

	// Run migration if requested
	if *migrate {
		log.Println("Running database migration...")
		if err := database.AutoMigrate(database.GetDB()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Migration completed successfully")
	}

	// Seed database if requested
	if *seed {
		log.Println("Seeding database with sample data...")
		if err := database.SeedData(database.GetDB()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeded successfully")
	}

	// Substitution rules: built-in defaults unless a rule file is given
	rules, err := catalog.LoadRules(cfg.App.RulesPath)
	if err != nil {
		log.Fatalf("Failed to load substitution rules: %v", err)
	}

	// Chart-list cache: on disk when CACHE_DIR is set, in memory otherwise
	cache, err := chartcache.NewBadger(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Failed to open chart cache: %v", err)
	}
	defer cache.Close()

	store := catalog.NewStore(database.GetDB())
	repo := series.NewRepository(database.GetDB())

	server := web.NewServer(web.Services{
		Store:       store,
		Resolver:    catalog.NewResolver(store),
		Policy:      catalog.NewPolicy(store, rules),
		Charts:      chartcache.NewChartCatalog(store, cache),
		Aggregator:  series.NewAggregator(repo),
		Integration: series.NewIntegrationBuilder(repo),
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(cfg.App.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func showHelp() {
	log.Println(`
Commodity Price Dashboard API Server

Usage:
  go run main.go [options]

Options:
  -migrate  Run GORM AutoMigrate on startup
  -seed     Seed database with sample data
  -help     Show this help message

Examples:
  # Start server only
  go run main.go

  # Start server with migration
  go run main.go -migrate

  # Start server with migration and seed
  go run main.go -migrate -seed

  # Seed data only
  go run main.go -seed

Environment:
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME  database connection
  CACHE_DIR   BadgerDB directory for the chart-list cache (empty = in memory)
  RULES_PATH  substitution rule table in TOML (empty = built-in defaults)
  APP_PORT    HTTP listen port (default 8080)

For full migration control, use:
  go run cmd/migrate/main.go

For full seed control, use:
  go run cmd/seed/main.go
`)
}
