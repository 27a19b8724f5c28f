package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/repository"
)

const defaultRecentLogsLimit = 200

// AuditService exposes the read side of the action log. Appending happens
// inside the mutating services, within the same transaction as the
// mutation itself.
type AuditService interface {
	Recent(ctx context.Context, limit int) ([]*model.AuditLogEntry, error)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditService builds AuditService
func NewAuditService(auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]*model.AuditLogEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLogsLimit
	}

	entries, err := s.auditRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// newAuditEntry builds a single audit record attributed to actor.
// details is serialized to JSON, nil leaves it empty.
func newAuditEntry(actor model.Actor, action, targetType, targetID string, details any) (*model.AuditLogEntry, error) {
	entry := &model.AuditLogEntry{
		ID:         uuid.NewString(),
		Username:   actor.Username,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now().UTC(),
	}

	if details != nil {
		serialized, err := json.Marshal(details)
		if err != nil {
			return nil, err
		}
		entry.Details = string(serialized)
	}
	return entry, nil
}
