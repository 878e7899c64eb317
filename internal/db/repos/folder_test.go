package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

type FolderRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestFolderRepository(t *testing.T) {
	suite.Run(t, new(FolderRepositoryTestSuite))
}

func (s *FolderRepositoryTestSuite) TestSharedFolderAndSubfolder() {
	key := make([]byte, 32)
	s.Require().NoError(s.folderRepo.CreateSharedFolder(s.ctx, &models.SharedFolder{UID: "sf1", Name: "PAM", Key: key}))
	s.Require().NoError(s.folderRepo.CreateFolder(s.ctx, &models.Folder{UID: "f1", SharedFolderUID: "sf1", Name: "Discovered"}))

	sf, err := s.folderRepo.GetSharedFolder(s.ctx, "sf1")
	s.NoError(err)
	s.Equal(key, sf.Key)

	f, err := s.folderRepo.GetFolder(s.ctx, "f1")
	s.NoError(err)
	s.Equal("sf1", f.SharedFolderUID)

	_, err = s.folderRepo.GetSharedFolder(s.ctx, "f1")
	s.Error(err)
	_, err = s.folderRepo.GetFolder(s.ctx, "nope")
	s.Error(err)
}

func (s *FolderRepositoryTestSuite) TestApplication() {
	s.Require().NoError(s.appRepo.Create(s.ctx, &models.Application{UID: "app1", Title: "Gateways"}))

	app, err := s.appRepo.GetByUID(s.ctx, "app1")
	s.NoError(err)
	s.Equal("Gateways", app.Title)

	_, err = s.appRepo.GetByUID(s.ctx, "app2")
	s.Error(err)
}

func (s *FolderRepositoryTestSuite) TestSyncState() {
	dirty, err := s.syncRepo.IsDirty(s.ctx)
	s.NoError(err)
	s.False(dirty)

	s.Require().NoError(s.syncRepo.MarkDirty(s.ctx))
	s.Require().NoError(s.syncRepo.MarkDirty(s.ctx))
	dirty, err = s.syncRepo.IsDirty(s.ctx)
	s.NoError(err)
	s.True(dirty)

	s.Require().NoError(s.syncRepo.Clear(s.ctx))
	dirty, err = s.syncRepo.IsDirty(s.ctx)
	s.NoError(err)
	s.False(dirty)
}
