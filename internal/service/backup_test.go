package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	backupMocks "github.com/ayaocrm/crm/internal/backup/mocks"
	apperrors "github.com/ayaocrm/crm/internal/errors"
	"github.com/ayaocrm/crm/internal/model"
	rpsMocks "github.com/ayaocrm/crm/internal/repository/mocks"
)

var testBackupCtx = context.Background()

type backupServiceTestSuite struct {
	suite.Suite
	backupSvc       BackupService
	customerRpsMock *rpsMocks.CustomerRepository
	followupRpsMock *rpsMocks.FollowupRepository
	auditRpsMock    *rpsMocks.AuditLogRepository
	uploaderMock    *backupMocks.Uploader
}

func (s *backupServiceTestSuite) SetupTest() {
	t := s.T()
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.followupRpsMock = rpsMocks.NewFollowupRepository(t)
	s.auditRpsMock = rpsMocks.NewAuditLogRepository(t)
	s.uploaderMock = backupMocks.NewUploader(t)
	s.backupSvc = NewBackupService(s.customerRpsMock, s.followupRpsMock, s.auditRpsMock, s.uploaderMock)
}

func (s *backupServiceTestSuite) TestExportSnapshotContainsAllRecords() {
	customers := []*model.Customer{
		testCustomer("alice", ""),
		testCustomer("bob", "carol"),
	}
	followups := []*model.Followup{
		{ID: "f1", CustomerID: customers[0].ID, Author: "alice", Note: "called"},
	}

	s.customerRpsMock.On("FindAll", testBackupCtx).Return(customers, nil).Once()
	s.followupRpsMock.On("FindAll", testBackupCtx).Return(followups, nil).Once()

	s.T().Log("snapshot must carry every customer and followup regardless of ownership")
	{
		blob, err := s.backupSvc.ExportSnapshot(testBackupCtx)
		s.Require().NoError(err, "export must succeed")

		var snapshot Snapshot
		s.Require().NoError(json.Unmarshal(blob, &snapshot), "snapshot must be valid json")
		s.Assert().Len(snapshot.Customers, 2, "all customers must be exported")
		s.Assert().Len(snapshot.Followups, 1, "all followups must be exported")
		s.Assert().False(snapshot.TakenAt.IsZero(), "snapshot time must be recorded")
	}
}

func (s *backupServiceTestSuite) TestRunUploadsTimestampedArtifact() {
	s.customerRpsMock.On("FindAll", testBackupCtx).Return([]*model.Customer{testCustomer("alice", "")}, nil).Once()
	s.followupRpsMock.On("FindAll", testBackupCtx).Return(nil, nil).Once()
	s.uploaderMock.On(
		"Upload",
		testBackupCtx,
		mock.MatchedBy(func(path string) bool {
			return strings.HasPrefix(path, "backups/crm_data_") && strings.HasSuffix(path, ".json")
		}),
		mock.AnythingOfType("[]uint8"),
		mock.MatchedBy(func(message string) bool {
			return strings.HasPrefix(message, "Auto backup ")
		}),
	).Return(nil).Once()
	s.auditRpsMock.On("Create", testBackupCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("snapshot must be uploaded under a timestamped path and logged to audit")
	{
		path, err := s.backupSvc.Run(testBackupCtx, model.Actor{Username: "root", Role: model.RoleAdmin})
		s.Assert().NoError(err, "backup run is correct but error was raised")
		s.Assert().True(strings.HasPrefix(path, "backups/crm_data_"), "returned path must point at the artifact")
		s.auditRpsMock.AssertCalled(s.T(), "Create", testBackupCtx, mock.AnythingOfType("*model.AuditLogEntry"))
	}
}

func (s *backupServiceTestSuite) TestRunUploadFailure() {
	s.customerRpsMock.On("FindAll", testBackupCtx).Return(nil, nil).Once()
	s.followupRpsMock.On("FindAll", testBackupCtx).Return(nil, nil).Once()
	s.uploaderMock.On(
		"Upload",
		testBackupCtx,
		mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8"),
		mock.AnythingOfType("string"),
	).Return(apperrors.NewTransportError(502, "bad gateway")).Once()

	s.T().Log("upload failed - error must surface and no audit entry appears")
	{
		_, err := s.backupSvc.Run(testBackupCtx, model.Actor{Username: "root", Role: model.RoleAdmin})
		s.Assert().Error(err, "upload failed but no error raised")

		var transportErr *apperrors.TransportError
		s.Assert().ErrorAs(err, &transportErr, "error must be transport error")
		s.auditRpsMock.AssertNotCalled(s.T(), "Create", testBackupCtx, mock.AnythingOfType("*model.AuditLogEntry"))
	}
}

// start backup service test suite
func TestBackupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(backupServiceTestSuite))
}
