// This file is used to migrate the vault cache and the discovery stores it holds
// How to run:
// go run cmd/migrate/main.go                          # Migrate the default sqlite cache
// go run cmd/migrate/main.go -driver postgres -dsn <dsn> # Migrate a postgres cache
// go run cmd/migrate/main.go -retries 10              # Wait longer for the database
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/config"
	"github.com/celestiaorg/pamdiscover/internal/app"
	"github.com/celestiaorg/pamdiscover/internal/db"
	"github.com/celestiaorg/pamdiscover/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	var (
		driver    = flag.String("driver", cfg.DBDriver, "Vault cache driver, sqlite or postgres")
		dsn       = flag.String("dsn", cfg.DBDSN, "Vault cache file or connection string")
		retries   = flag.Int("retries", 5, "Number of connection retries")
		retryWait = flag.Duration("retry-wait", 3*time.Second, "Wait time between retries")
	)
	flag.Parse()

	logger.InitializeAndConfigure(cfg.LogLevel)

	// Opening the cache also brings its tables up to date
	var gdb *gorm.DB
	for attempt := 1; ; attempt++ {
		gdb, err = db.New(db.Options{Driver: *driver, DSN: *dsn})
		if err == nil {
			break
		}
		if attempt >= *retries {
			log.Fatalf("Failed to open vault cache after %d attempts: %v", attempt, err)
		}
		log.Printf("Vault cache not ready (attempt %d/%d): %v", attempt, *retries, err)
		time.Sleep(*retryWait)
	}

	// Store migration only reads and writes configuration records, no router is needed
	session := app.NewSessionWith(gdb, nil)
	defer func() {
		_ = session.Close()
	}()

	migrated, err := session.Discovery.Migrate(context.Background())
	if err != nil {
		log.Fatalf("Discovery store migration failed after %d stores: %v", migrated, err)
	}
	log.Printf("Migrated %d discovery stores", migrated)
}
