package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

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

// Verify interface compliance
var _ referral.TransactionRepository = (*MockTransactionRepository)(nil)

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

// Verify interface compliance
var _ referral.CodeRepository = (*MockCodeRepository)(nil)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Verify interface compliance
var _ identity.UserRepository = (*MockUserRepository)(nil)
