package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayaocrm/crm/internal/backup"
	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/repository"
)

const backupTimestampLayout = "20060102_150405"

// Snapshot is a point-in-time copy of the record store. Read committed at
// call time - no stronger isolation is promised.
type Snapshot struct {
	TakenAt   time.Time         `json:"takenAt"`
	Customers []*model.Customer `json:"customers"`
	Followups []*model.Followup `json:"followups"`
}

// BackupService exports record store snapshots and ships them to remote
// storage. Administrator-only operation, so the export deliberately
// bypasses the access policy.
type BackupService interface {
	ExportSnapshot(ctx context.Context) ([]byte, error)
	Run(ctx context.Context, actor model.Actor) (string, error)
}

type backupService struct {
	customerRepo repository.CustomerRepository
	followupRepo repository.FollowupRepository
	auditRepo    repository.AuditLogRepository
	uploader     backup.Uploader
}

// NewBackupService builds BackupService
func NewBackupService(
	customerRepo repository.CustomerRepository,
	followupRepo repository.FollowupRepository,
	auditRepo repository.AuditLogRepository,
	uploader backup.Uploader,
) BackupService {
	return &backupService{
		customerRepo: customerRepo,
		followupRepo: followupRepo,
		auditRepo:    auditRepo,
		uploader:     uploader,
	}
}

func (s *backupService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	followups, err := s.followupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		TakenAt:   time.Now().UTC(),
		Customers: customers,
		Followups: followups,
	}
	return json.Marshal(&snapshot)
}

// Run exports a snapshot and uploads it as a timestamp-named artifact.
// Returns the remote path on success. Failures are not retried - the
// admin may trigger another run manually.
func (s *backupService) Run(ctx context.Context, actor model.Actor) (string, error) {
	blob, err := s.ExportSnapshot(ctx)
	if err != nil {
		return "", err
	}

	ts := time.Now().UTC().Format(backupTimestampLayout)
	path := fmt.Sprintf("backups/crm_data_%s.json", ts)
	message := fmt.Sprintf("Auto backup %s", ts)

	if err := s.uploader.Upload(ctx, path, blob, message); err != nil {
		logrus.Errorf("snapshot upload to %s failed - %v", path, err)
		return "", err
	}

	entry, err := newAuditEntry(actor, model.ActionBackup, model.AuditTargetDatabase, path, nil)
	if err != nil {
		return "", err
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return "", err
	}

	logrus.Infof("snapshot uploaded to %s", path)
	return path, nil
}
