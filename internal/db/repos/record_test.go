package repos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RecordRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestRecordRepository(t *testing.T) {
	suite.Run(t, new(RecordRepositoryTestSuite))
}

func (s *RecordRepositoryTestSuite) TestCreateRequiresUID() {
	err := s.recordRepo.Create(s.ctx, s.createTestRecordValue(""))
	s.Error(err)
}

func (s *RecordRepositoryTestSuite) TestGetByUID() {
	original := s.createTestRecord("rec1", "pamNetworkConfiguration", "Network")

	found, err := s.recordRepo.GetByUID(s.ctx, original.UID)
	s.NoError(err)
	s.Equal("Network", found.Title)
	s.Require().Len(found.Fields, 1)
	s.Equal("pamResources", found.Fields[0].Type)

	_, err = s.recordRepo.GetByUID(s.ctx, "missing")
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *RecordRepositoryTestSuite) TestUpdateBumpsRevision() {
	record := s.createTestRecord("rec1", "pamNetworkConfiguration", "Network")
	s.Equal(int64(0), record.Revision)

	record.SetCustomField("text", "discoveryStore", `{"ignoreList":[],"jobs":[]}`)
	s.Require().NoError(s.recordRepo.Update(s.ctx, record))
	s.Equal(int64(1), record.Revision)

	updated, err := s.recordRepo.GetByUID(s.ctx, record.UID)
	s.NoError(err)
	s.Equal(int64(1), updated.Revision)
	field := updated.CustomField("discoveryStore")
	s.Require().NotNil(field)
	value, ok := field.FirstString()
	s.True(ok)
	s.Equal(`{"ignoreList":[],"jobs":[]}`, value)
}

func (s *RecordRepositoryTestSuite) TestUpdateMissingRecord() {
	err := s.recordRepo.Update(s.ctx, s.createTestRecordValue("ghost"))
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *RecordRepositoryTestSuite) TestFindByType() {
	s.createTestRecord("rec1", "pamNetworkConfiguration", "Network")
	s.createTestRecord("rec2", "pamAwsConfiguration", "AWS")
	s.createTestRecord("rec3", "pamUser", "admin")
	s.createTestRecord("rec4", "login", "web")

	found, err := s.recordRepo.FindByType(s.ctx, `^pam.*Configuration$`)
	s.NoError(err)
	s.Len(found, 2)
	uids := []string{found[0].UID, found[1].UID}
	s.ElementsMatch([]string{"rec1", "rec2"}, uids)

	found, err = s.recordRepo.FindByType(s.ctx, `^nothing$`)
	s.NoError(err)
	s.Empty(found)

	_, err = s.recordRepo.FindByType(s.ctx, `(`)
	s.Error(err)
}
