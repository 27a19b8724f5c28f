package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/repository/mocks"
)

func TestRecentAppliesDefaultLimit(t *testing.T) {
	ctx := context.Background()
	entries := []*model.AuditLogEntry{{ID: "e1", Username: "root", Action: model.ActionBackup}}

	auditRpsMock := mocks.NewAuditLogRepository(t)
	auditRpsMock.On("FindRecent", ctx, defaultRecentLogsLimit).Return(entries, nil).Once()

	auditSvc := NewAuditService(auditRpsMock)

	t.Log("non-positive limit must fall back to the default")
	{
		found, err := auditSvc.Recent(ctx, 0)
		assert.NoError(t, err, "no error must be raised")
		assert.Len(t, found, 1)
	}
}

func TestRecentHonorsExplicitLimit(t *testing.T) {
	ctx := context.Background()

	auditRpsMock := mocks.NewAuditLogRepository(t)
	auditRpsMock.On("FindRecent", ctx, 25).Return(nil, nil).Once()

	auditSvc := NewAuditService(auditRpsMock)

	t.Log("positive limit must be passed through unchanged")
	{
		found, err := auditSvc.Recent(ctx, 25)
		assert.NoError(t, err, "no error must be raised")
		assert.Empty(t, found)
	}
}
