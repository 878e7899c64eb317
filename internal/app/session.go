// Package app wires the vault cache, the router client and the discovery services for one process
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/celestiaorg/pamdiscover/config"
	"github.com/celestiaorg/pamdiscover/internal/db"
	"github.com/celestiaorg/pamdiscover/internal/db/repos"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/services"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
)

// Session holds everything a command needs. It is created once per process and passed to every command.
type Session struct {
	DB     *gorm.DB
	Router client.Client

	Records      *repos.RecordRepository
	Folders      *repos.FolderRepository
	Applications *repos.ApplicationRepository
	SyncState    *repos.SyncStateRepository

	Store     *services.JobStore
	Registry  *services.GatewayRegistry
	Minter    *services.RecordMinter
	Discovery *services.Discovery

	connectedOnce sync.Once
	connected     []string
	connectedErr  error
}

// NewSession opens the vault cache and the router client described by cfg
func NewSession(cfg config.Config) (*Session, error) {
	router, err := client.NewClient(&client.Options{
		BaseURL:   cfg.RouterURL,
		Timeout:   cfg.Timeout,
		AuthToken: cfg.RouterToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router client: %w", err)
	}

	level := gormlogger.Warn
	if logger.Level() >= logrus.DebugLevel {
		level = gormlogger.Info
	}

	gdb, err := db.New(db.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		LogLevel: level,
	})
	if err != nil {
		return nil, err
	}

	return NewSessionWith(gdb, router), nil
}

// NewSessionWith builds a session over an open vault cache and a router client
func NewSessionWith(gdb *gorm.DB, router client.Client) *Session {
	s := &Session{
		DB:           gdb,
		Router:       router,
		Records:      repos.NewRecordRepository(gdb),
		Folders:      repos.NewFolderRepository(gdb),
		Applications: repos.NewApplicationRepository(gdb),
		SyncState:    repos.NewSyncStateRepository(gdb),
	}
	s.Store = services.NewJobStore(s.Records, s.SyncState)
	s.Registry = services.NewGatewayRegistry(s.Records, s.Applications, router)
	s.Minter = services.NewRecordMinter(s.Records, s.Folders, s.SyncState, router)
	s.Discovery = services.NewDiscoveryService(s.Registry, s.Store, router, s.Minter, s)
	return s
}

// ConnectedGateways returns the gateways connected to the router. The router is asked once per session.
func (s *Session) ConnectedGateways(ctx context.Context) ([]string, error) {
	s.connectedOnce.Do(func() {
		s.connected, s.connectedErr = s.Router.ConnectedGateways(ctx)
		if s.connectedErr == nil {
			logger.Debugf("%d gateways connected to the router", len(s.connected))
		}
	})
	return s.connected, s.connectedErr
}

// Close releases the vault cache connection
func (s *Session) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
