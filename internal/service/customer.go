package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayaocrm/crm/internal/access"
	"github.com/ayaocrm/crm/internal/cache"
	apperrors "github.com/ayaocrm/crm/internal/errors"
	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/repository"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// CustomerService manages customer records and their followups. Reads go
// through the access policy with the explicit actor, every mutation and
// its audit append commit within a single transaction.
type CustomerService interface {
	FindByID(ctx context.Context, actor model.Actor, id string) (*model.Customer, error)
	FindAllVisible(ctx context.Context, actor model.Actor) ([]*model.Customer, error)
	Create(ctx context.Context, actor model.Actor, c *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, actor model.Actor, id string, patch *model.CustomerPatch) (*model.Customer, error)
	DeleteByID(ctx context.Context, actor model.Actor, id string) error
	AddFollowup(ctx context.Context, actor model.Actor, customerID, note, nextAction string) (*model.Followup, error)
	Followups(ctx context.Context, customerID string) ([]*model.Followup, error)
}

type customerService struct {
	trx           transactor.Transactor
	customerRepo  repository.CustomerRepository
	followupRepo  repository.FollowupRepository
	auditRepo     repository.AuditLogRepository
	customerCache cache.CustomerCache
}

// NewCustomerService builds CustomerService
func NewCustomerService(
	trx transactor.Transactor,
	customerRepo repository.CustomerRepository,
	followupRepo repository.FollowupRepository,
	auditRepo repository.AuditLogRepository,
	customerCache cache.CustomerCache,
) CustomerService {
	return &customerService{
		trx:           trx,
		customerRepo:  customerRepo,
		followupRepo:  followupRepo,
		auditRepo:     auditRepo,
		customerCache: customerCache,
	}
}

func (s *customerService) FindByID(ctx context.Context, actor model.Actor, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		c, err = s.customerRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}

		if err := s.customerCache.Cache(ctx, c); err != nil {
			return nil, err
		}
	}

	// invisible records look absent, existence is not leaked
	if !access.Visible(c, actor) {
		return nil, nil
	}
	return c, nil
}

func (s *customerService) FindAllVisible(ctx context.Context, actor model.Actor) ([]*model.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return access.VisibleCustomers(customers, actor), nil
}

func (s *customerService) Create(ctx context.Context, actor model.Actor, c *model.Customer) (*model.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	if c.DealAmount < 0 {
		return nil, apperrors.NewValidationError("dealAmount", "must not be negative")
	}

	if c.Level == "" {
		c.Level = model.LevelNormal
	}
	if c.Progress == "" {
		c.Progress = model.ProgressUncontacted
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.customerRepo.Create(ctx, c); err != nil {
			return err
		}

		entry, err := newAuditEntry(actor, model.ActionCreateCustomer, model.AuditTargetCustomers, c.ID, c)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, actor model.Actor, id string, patch *model.CustomerPatch) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !access.Visible(c, actor) {
		return nil, apperrors.NewNotFoundError("customer", id)
	}

	patch.Apply(c)

	if strings.TrimSpace(c.Name) == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	if c.DealAmount < 0 {
		return nil, apperrors.NewValidationError("dealAmount", "must not be negative")
	}

	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return nil, err
	}

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.customerRepo.Update(ctx, c)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.NewNotFoundError("customer", id)
		}

		entry, err := newAuditEntry(actor, model.ActionUpdateCustomer, model.AuditTargetCustomers, id, patch)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, actor model.Actor, id string) error {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperrors.NewNotFoundError("customer", id)
	}

	if !access.CanDelete(c, actor) {
		return apperrors.NewPolicyViolationError("only the main owner or an administrator may delete a customer")
	}

	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return err
	}

	// customer row only - followups deliberately survive as dangling records
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customerRepo.DeleteByID(ctx, id); err != nil {
			return err
		}

		entry, err := newAuditEntry(actor, model.ActionDeleteCustomer, model.AuditTargetCustomers, id, nil)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
}

func (s *customerService) AddFollowup(ctx context.Context, actor model.Actor, customerID, note, nextAction string) (*model.Followup, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.NewValidationError("note", "must not be empty")
	}

	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NewNotFoundError("customer", customerID)
	}

	f := &model.Followup{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Author:     actor.Username,
		Note:       note,
		NextAction: strings.TrimSpace(nextAction),
		CreatedAt:  time.Now().UTC(),
	}

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.followupRepo.Create(ctx, f); err != nil {
			return err
		}

		details := struct {
			CustomerID string `json:"customerId"`
		}{CustomerID: customerID}

		entry, err := newAuditEntry(actor, model.ActionAddFollowup, model.AuditTargetFollowups, f.ID, details)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Followups is not access-filtered - followups of a deleted customer must
// stay readable by the old id
func (s *customerService) Followups(ctx context.Context, customerID string) ([]*model.Followup, error) {
	followups, err := s.followupRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return followups, nil
}
