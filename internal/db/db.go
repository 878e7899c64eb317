// Package db provides the local vault cache connectivity and operations
package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database configuration constants
const (
	// DefaultDriver is the default database driver
	DefaultDriver = DriverSQLite
	// DefaultSQLitePath is the default location of the local vault cache
	DefaultSQLitePath = "pamdiscover.db"
)

// Options represents database connection configuration options
type Options struct {
	// Driver is either "sqlite" or "postgres"
	Driver string
	// DSN is a file path for sqlite or a connection string for postgres
	DSN      string
	LogLevel logger.LogLevel
}

// New opens the vault cache with the given options and migrates its schema
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	// Configure custom logger to ignore record not found errors
	newLogger := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}
	if opts.Driver == DriverSQLite {
		// SQLite allows one writer, and every connection to ":memory:" is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func setDefaults(opts Options) Options {
	if opts.Driver == "" {
		opts.Driver = DefaultDriver
	}
	if opts.DSN == "" && opts.Driver == DriverSQLite {
		opts.DSN = DefaultSQLitePath
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	return opts
}

// Migrate creates or updates the vault cache tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Record{},
		&models.SharedFolder{},
		&models.Folder{},
		&models.Application{},
		&models.SyncState{},
	); err != nil {
		return fmt.Errorf("failed to migrate vault cache: %w", err)
	}
	return nil
}
