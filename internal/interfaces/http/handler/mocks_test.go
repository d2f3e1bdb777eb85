package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/partnership"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPartnershipRepository is a mock implementation of partnership.Repository
type MockPartnershipRepository struct {
	mock.Mock
}

func (m *MockPartnershipRepository) Create(ctx context.Context, p *partnership.Partnership) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnershipRepository) Update(ctx context.Context, p *partnership.Partnership) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*partnership.Partnership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnership.Partnership), args.Error(1)
}

func (m *MockPartnershipRepository) FindByInviteToken(ctx context.Context, token string) (*partnership.Partnership, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnership.Partnership), args.Error(1)
}

func (m *MockPartnershipRepository) FindBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*partnership.Partnership, error) {
	args := m.Called(ctx, partnerA, partnerB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnership.Partnership), args.Error(1)
}

func (m *MockPartnershipRepository) FindActiveBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*partnership.Partnership, error) {
	args := m.Called(ctx, partnerA, partnerB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnership.Partnership), args.Error(1)
}

func (m *MockPartnershipRepository) FindActiveByPartner(ctx context.Context, partnerID uuid.UUID) ([]*partnership.Partnership, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partnership.Partnership), args.Error(1)
}

var _ partnership.Repository = (*MockPartnershipRepository)(nil)

// MockOfferRepository is a mock implementation of offer.Repository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) List(ctx context.Context, filter offer.ListFilter) ([]*offer.Offer, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*offer.Offer), args.Get(1).(int64), args.Error(2)
}

var _ offer.Repository = (*MockOfferRepository)(nil)

// MockCodeRepository is a mock implementation of referral.CodeRepository
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Create(ctx context.Context, code *referral.Code) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepository) Update(ctx context.Context, code *referral.Code) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*referral.Code, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*referral.Code), args.Error(1)
}

func (m *MockCodeRepository) FindByCodeString(ctx context.Context, codeString string) (*referral.Code, error) {
	args := m.Called(ctx, codeString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*referral.Code), args.Error(1)
}

func (m *MockCodeRepository) ExistsByCodeString(ctx context.Context, codeString string) (bool, error) {
	args := m.Called(ctx, codeString)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*referral.Code, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*referral.Code), args.Error(1)
}

var _ referral.CodeRepository = (*MockCodeRepository)(nil)

// MockTransactionRepository is a mock implementation of referral.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *referral.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*referral.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*referral.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumOwedToPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumOwedByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*referral.Transaction, error) {
	args := m.Called(ctx, partnerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*referral.Transaction), args.Error(1)
}

var _ referral.TransactionRepository = (*MockTransactionRepository)(nil)
