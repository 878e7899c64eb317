package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	ctx        context.Context
	recordRepo *RecordRepository
	folderRepo *FolderRepository
	appRepo    *ApplicationRepository
	syncRepo   *SyncStateRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Each test gets its own private in-memory database
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Every pooled connection would otherwise open a separate empty database
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Record{}, &models.SharedFolder{}, &models.Folder{}, &models.Application{}, &models.SyncState{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.recordRepo = NewRecordRepository(s.db)
	s.folderRepo = NewFolderRepository(s.db)
	s.appRepo = NewApplicationRepository(s.db)
	s.syncRepo = NewSyncStateRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestRecord(uid, recordType, title string) *models.Record {
	record := &models.Record{
		UID:   uid,
		Type:  recordType,
		Title: title,
		Fields: []models.TypedField{
			{Type: "pamResources", Value: []interface{}{map[string]interface{}{"controllerUid": "gw1", "folderUid": "sf1"}}},
		},
	}
	err := s.recordRepo.Create(s.ctx, record)
	s.Require().NoError(err)
	return record
}

// TestDBRepository runs the test suite for the DBRepository to verify no panic
func TestDBRepository(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}

func (s *DBRepositoryTestSuite) createTestRecordValue(uid string) *models.Record {
	return &models.Record{UID: uid, Type: "login", Title: "value"}
}
