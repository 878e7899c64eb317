package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/pamdiscover/internal/db"
	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/db/repos"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client/mock"
)

// Fixture identifiers
const (
	testConfigUID    = "cfg1"
	testGatewayUID   = "gw1"
	testGatewayName  = "Lab Gateway"
	testAppUID       = "app1"
	testSharedFolder = "sf1"
	testSubfolder    = "sub1"
)

// TestSetup sets up an in-memory vault cache, a mock router and the discovery services
type TestSetup struct {
	DB         *gorm.DB
	RecordRepo *repos.RecordRepository
	FolderRepo *repos.FolderRepository
	AppRepo    *repos.ApplicationRepository
	SyncRepo   *repos.SyncStateRepository
	Router     *mock.MockClient

	Store     *JobStore
	Registry  *GatewayRegistry
	Minter    *RecordMinter
	Discovery *Discovery

	FolderKey []byte
	ctx       context.Context
}

// NewTestSetup creates a new test setup with one configuration bound to one gateway
func NewTestSetup(t *testing.T) *TestSetup {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb), "Failed to run migrations")

	router := &mock.MockClient{}
	router.ListGatewaysFn = func(context.Context) ([]types.Gateway, error) {
		return []types.Gateway{
			{ControllerUID: testGatewayUID, ControllerName: testGatewayName, ApplicationUID: testAppUID},
		}, nil
	}
	router.ConnectedGatewaysFn = func(context.Context) ([]string, error) {
		return []string{testGatewayUID}, nil
	}

	s := &TestSetup{
		DB:         gdb,
		RecordRepo: repos.NewRecordRepository(gdb),
		FolderRepo: repos.NewFolderRepository(gdb),
		AppRepo:    repos.NewApplicationRepository(gdb),
		SyncRepo:   repos.NewSyncStateRepository(gdb),
		Router:     router,
		FolderKey:  bytes.Repeat([]byte{7}, 32),
		ctx:        context.Background(),
	}
	s.Store = NewJobStore(s.RecordRepo, s.SyncRepo)
	s.Registry = NewGatewayRegistry(s.RecordRepo, s.AppRepo, router)
	s.Minter = NewRecordMinter(s.RecordRepo, s.FolderRepo, s.SyncRepo, router)
	s.Discovery = NewDiscoveryService(s.Registry, s.Store, router, s.Minter, router)
	s.Discovery.now = func() time.Time { return time.Unix(50, 0) }

	require.NoError(t, s.FolderRepo.CreateSharedFolder(s.ctx, &models.SharedFolder{UID: testSharedFolder, Name: "Discovery", Key: s.FolderKey}))
	require.NoError(t, s.FolderRepo.CreateFolder(s.ctx, &models.Folder{UID: testSubfolder, SharedFolderUID: testSharedFolder, Name: "Machines"}))
	require.NoError(t, s.AppRepo.Create(s.ctx, &models.Application{UID: testAppUID, Title: "Gateway App"}))
	s.createConfiguration(t, testConfigUID, testGatewayUID, testSharedFolder)
	return s
}

// createConfiguration stores a PAM configuration bound to a gateway and folder
func (s *TestSetup) createConfiguration(t *testing.T, uid, gatewayUID, folderUID string) *models.Record {
	t.Helper()
	resources := map[string]interface{}{"folderUid": folderUID}
	if gatewayUID != "" {
		resources["controllerUid"] = gatewayUID
	}
	record := &models.Record{
		UID:   uid,
		Type:  "pamNetworkConfiguration",
		Title: "Network " + uid,
		Fields: []models.TypedField{
			{Type: "pamResources", Value: []interface{}{resources}},
		},
	}
	require.NoError(t, s.RecordRepo.Create(s.ctx, record))
	return record
}

// configuration reloads a configuration record from the cache
func (s *TestSetup) configuration(t *testing.T, uid string) *models.Record {
	t.Helper()
	record, err := s.RecordRepo.GetByUID(s.ctx, uid)
	require.NoError(t, err)
	return record
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
