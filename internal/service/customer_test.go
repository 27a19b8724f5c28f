package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	cacheMocks "github.com/ayaocrm/crm/internal/cache/mocks"
	apperrors "github.com/ayaocrm/crm/internal/errors"
	"github.com/ayaocrm/crm/internal/model"
	rpsMocks "github.com/ayaocrm/crm/internal/repository/mocks"
)

var testCustomerCtx = context.Background()

var aliceActor = model.Actor{Username: "alice", Role: model.RoleUser}
var bobActor = model.Actor{Username: "bob", Role: model.RoleUser}
var rootActor = model.Actor{Username: "root", Role: model.RoleAdmin}

func testCustomer(owner, assistant string) *model.Customer {
	c := &model.Customer{
		ID:         "ecc770d9-4576-4f72-affa-8b1454246692",
		Name:       "Wang Wei",
		Country:    "Indonesia",
		City:       "Jakarta",
		DealAmount: 1500,
		Level:      model.LevelImportant,
		Progress:   model.ProgressNegotiating,
		Assistant:  assistant,
		CreatedAt:  time.Now().UTC(),
	}
	if owner != "" {
		c.MainOwner = &owner
	}
	return c
}

type customerServiceTestSuite struct {
	suite.Suite
	customerSvc       CustomerService
	transactorMock    *rpsMocks.Transactor
	customerRpsMock   *rpsMocks.CustomerRepository
	followupRpsMock   *rpsMocks.FollowupRepository
	auditRpsMock      *rpsMocks.AuditLogRepository
	customerCacheMock *cacheMocks.CustomerCache
}

func (s *customerServiceTestSuite) SetupSuite() {
	s.transactorMock = rpsMocks.NewTransactor(s.T())
	s.transactorMock.On(
		"WithinTransaction",
		context.Background(),
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		return txFunc(ctx)
	})
}

func (s *customerServiceTestSuite) SetupTest() {
	t := s.T()
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.followupRpsMock = rpsMocks.NewFollowupRepository(t)
	s.auditRpsMock = rpsMocks.NewAuditLogRepository(t)
	s.customerCacheMock = cacheMocks.NewCustomerCache(t)
	s.customerSvc = NewCustomerService(
		s.transactorMock,
		s.customerRpsMock,
		s.followupRpsMock,
		s.auditRpsMock,
		s.customerCacheMock,
	)
}

func (s *customerServiceTestSuite) TestFindByIDFromCache() {
	customer := testCustomer("alice", "")

	s.customerCacheMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()

	s.T().Log("customer must be found in cache")
	{
		c, err := s.customerSvc.FindByID(testCustomerCtx, aliceActor, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().NotNil(c, "customer must be found")
		s.customerRpsMock.AssertNotCalled(s.T(), "FindByID", testCustomerCtx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestFindByIDCachedAfterMiss() {
	customer := testCustomer("alice", "")

	s.customerCacheMock.On("FindByID", testCustomerCtx, customer.ID).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("Cache", testCustomerCtx, customer).Return(nil).Once()

	s.T().Log("customer is not in cache, found in primary datasource and cached")
	{
		c, err := s.customerSvc.FindByID(testCustomerCtx, aliceActor, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().NotNil(c, "customer must be found")
		s.customerCacheMock.AssertCalled(s.T(), "Cache", testCustomerCtx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestFindByIDMissing() {
	customer := testCustomer("alice", "")

	s.customerCacheMock.On("FindByID", testCustomerCtx, customer.ID).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(nil, nil).Once()

	s.T().Log("customer is missing in cache and in primary datasource")
	{
		c, err := s.customerSvc.FindByID(testCustomerCtx, aliceActor, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Nil(c, "no customer must be present but it was found")
		s.customerCacheMock.AssertNotCalled(s.T(), "Cache", testCustomerCtx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestFindByIDInvisibleLooksAbsent() {
	customer := testCustomer("alice", "")

	s.customerCacheMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()

	s.T().Log("record exists but actor has no access - response must match the missing case")
	{
		c, err := s.customerSvc.FindByID(testCustomerCtx, bobActor, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Nil(c, "existence of foreign record must not be revealed")
	}
}

func (s *customerServiceTestSuite) TestFindAllVisibleFiltersForUser() {
	own := testCustomer("alice", "")
	assisted := testCustomer("bob", "alice")
	foreign := testCustomer("bob", "carol")

	s.customerRpsMock.On("FindAll", testCustomerCtx).Return([]*model.Customer{own, assisted, foreign}, nil).Once()

	s.T().Log("plain user must get own and assisted records only")
	{
		customers, err := s.customerSvc.FindAllVisible(testCustomerCtx, aliceActor)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal([]*model.Customer{own, assisted}, customers, "records must be filtered preserving order")
	}
}

func (s *customerServiceTestSuite) TestCreateAssignsIdentityAndDefaults() {
	s.customerRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.Customer")).Return(nil).Once()
	s.auditRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("new customer must get id, creation time and default level/progress")
	{
		c, err := s.customerSvc.Create(testCustomerCtx, aliceActor, &model.Customer{Name: "Li Na"})
		s.Assert().NoError(err, "customer data is correct but error was raised")
		s.Assert().NotEmpty(c.ID, "id must be assigned")
		s.Assert().False(c.CreatedAt.IsZero(), "creation time must be assigned")
		s.Assert().Equal(model.LevelNormal, c.Level, "default level must be applied")
		s.Assert().Equal(model.ProgressUncontacted, c.Progress, "default progress must be applied")
	}
}

func (s *customerServiceTestSuite) TestCreateEmptyNameRejected() {
	s.T().Log("customer with blank name must be rejected before any persistence")
	{
		_, err := s.customerSvc.Create(testCustomerCtx, aliceActor, &model.Customer{Name: "   "})
		s.Assert().Error(err, "blank name was accepted")

		var validationErr *apperrors.ValidationError
		s.Assert().ErrorAs(err, &validationErr, "error must be validation error")
		s.customerRpsMock.AssertNotCalled(s.T(), "Create", testCustomerCtx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestCreateNegativeDealAmountRejected() {
	s.T().Log("customer with negative deal amount must be rejected")
	{
		_, err := s.customerSvc.Create(testCustomerCtx, aliceActor, &model.Customer{Name: "Li Na", DealAmount: -1})
		s.Assert().Error(err, "negative deal amount was accepted")

		var validationErr *apperrors.ValidationError
		s.Assert().ErrorAs(err, &validationErr, "error must be validation error")
	}
}

func (s *customerServiceTestSuite) TestUpdatePartialPreservesUntouchedFields() {
	customer := testCustomer("alice", "")
	progress := model.ProgressClosedWon

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("EvictByID", testCustomerCtx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("Update", testCustomerCtx, mock.AnythingOfType("*model.Customer")).Return(true, nil).Once()
	s.auditRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("patch carries progress only, other fields must stay intact")
	{
		c, err := s.customerSvc.Update(testCustomerCtx, aliceActor, customer.ID, &model.CustomerPatch{Progress: &progress})
		s.Assert().NoError(err, "patch is correct but error was raised")
		s.Assert().Equal(model.ProgressClosedWon, c.Progress, "patched field must be applied")
		s.Assert().Equal("Wang Wei", c.Name, "untouched field must keep its value")
		s.Assert().Equal(model.LevelImportant, c.Level, "untouched field must keep its value")
	}
}

func (s *customerServiceTestSuite) TestUpdateInvisibleLooksAbsent() {
	customer := testCustomer("alice", "")
	name := "renamed"

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()

	s.T().Log("update of invisible record must fail as not found")
	{
		_, err := s.customerSvc.Update(testCustomerCtx, bobActor, customer.ID, &model.CustomerPatch{Name: &name})
		s.Assert().Error(err, "foreign record update was accepted")

		var notFoundErr *apperrors.NotFoundError
		s.Assert().ErrorAs(err, &notFoundErr, "error must be not found error")
		s.customerRpsMock.AssertNotCalled(s.T(), "Update", testCustomerCtx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestDeleteByAssistantRejected() {
	customer := testCustomer("alice", "bob")

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()

	s.T().Log("assistant may see the record but must not delete it")
	{
		err := s.customerSvc.DeleteByID(testCustomerCtx, bobActor, customer.ID)
		s.Assert().Error(err, "assistant deletion was accepted")

		var policyErr *apperrors.PolicyViolationError
		s.Assert().ErrorAs(err, &policyErr, "error must be policy violation error")
		s.customerCacheMock.AssertNotCalled(s.T(), "EvictByID", testCustomerCtx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestDeleteByOwnerEvictsCache() {
	customer := testCustomer("alice", "")

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("EvictByID", testCustomerCtx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("DeleteByID", testCustomerCtx, customer.ID).Return(true, nil).Once()
	s.auditRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("owner deletes the record, cached copy must be evicted")
	{
		err := s.customerSvc.DeleteByID(testCustomerCtx, aliceActor, customer.ID)
		s.Assert().NoError(err, "deletion is permitted but error was raised")
		s.customerCacheMock.AssertCalled(s.T(), "EvictByID", testCustomerCtx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestDeleteByAdmin() {
	customer := testCustomer("alice", "")

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("EvictByID", testCustomerCtx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("DeleteByID", testCustomerCtx, customer.ID).Return(true, nil).Once()
	s.auditRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("admin deletes a record they do not own")
	{
		err := s.customerSvc.DeleteByID(testCustomerCtx, rootActor, customer.ID)
		s.Assert().NoError(err, "admin deletion is permitted but error was raised")
	}
}

func (s *customerServiceTestSuite) TestAddFollowupEmptyNoteRejected() {
	customer := testCustomer("alice", "")

	s.T().Log("followup with whitespace-only note must be rejected before any lookup")
	{
		_, err := s.customerSvc.AddFollowup(testCustomerCtx, aliceActor, customer.ID, "   ", "call back")
		s.Assert().Error(err, "blank note was accepted")

		var validationErr *apperrors.ValidationError
		s.Assert().ErrorAs(err, &validationErr, "error must be validation error")
		s.customerRpsMock.AssertNotCalled(s.T(), "FindByID", testCustomerCtx, customer.ID)
		s.followupRpsMock.AssertNotCalled(s.T(), "Create", testCustomerCtx, mock.AnythingOfType("*model.Followup"))
	}
}

func (s *customerServiceTestSuite) TestAddFollowupUnknownCustomer() {
	s.customerRpsMock.On("FindByID", testCustomerCtx, "missing-id").Return(nil, nil).Once()

	s.T().Log("followup for unknown customer must be rejected")
	{
		_, err := s.customerSvc.AddFollowup(testCustomerCtx, aliceActor, "missing-id", "called", "")
		s.Assert().Error(err, "unknown customer was accepted")

		var notFoundErr *apperrors.NotFoundError
		s.Assert().ErrorAs(err, &notFoundErr, "error must be not found error")
	}
}

func (s *customerServiceTestSuite) TestAddFollowupSuccessful() {
	customer := testCustomer("alice", "")

	s.customerRpsMock.On("FindByID", testCustomerCtx, customer.ID).Return(customer, nil).Once()
	s.followupRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.Followup")).Return(nil).Once()
	s.auditRpsMock.On("Create", testCustomerCtx, mock.AnythingOfType("*model.AuditLogEntry")).Return(nil).Once()

	s.T().Log("followup must be created and attributed to the acting user")
	{
		f, err := s.customerSvc.AddFollowup(testCustomerCtx, aliceActor, customer.ID, "  called, interested  ", "send quote")
		s.Assert().NoError(err, "followup data is correct but error was raised")
		s.Assert().Equal("alice", f.Author, "followup must be attributed to the actor")
		s.Assert().Equal("called, interested", f.Note, "note must be trimmed")
		s.Assert().NotEmpty(f.ID, "id must be assigned")
	}
}

func (s *customerServiceTestSuite) TestFollowupsReadableAfterCustomerDeletion() {
	followups := []*model.Followup{
		{ID: "f1", CustomerID: "gone-customer", Author: "alice", Note: "called"},
	}

	s.followupRpsMock.On("FindByCustomerID", testCustomerCtx, "gone-customer").Return(followups, nil).Once()

	s.T().Log("followups of a deleted customer must stay readable by the old id")
	{
		found, err := s.customerSvc.Followups(testCustomerCtx, "gone-customer")
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Len(found, 1, "dangling followups must be returned")
		s.customerRpsMock.AssertNotCalled(s.T(), "FindByID", testCustomerCtx, "gone-customer")
	}
}

// start customer service test suite
func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(customerServiceTestSuite))
}
