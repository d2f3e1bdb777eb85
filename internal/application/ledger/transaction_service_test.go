package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUser(t *testing.T, companyName, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "password123", companyName, "")
	require.NoError(t, err)
	return user
}

func TestTransactionService_Get_Success(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	codeRepo := new(MockCodeRepository)
	userRepo := new(MockUserRepository)
	service := NewTransactionService(txRepo, codeRepo, userRepo, zap.NewNop())
	ctx := context.Background()

	referrer := testUser(t, "Referrer SARL", "referrer@example.com")
	redeemer := testUser(t, "Redeemer GmbH", "redeemer@example.com")
	tx := dueTransaction(t, referrer.ID, redeemer.ID, "12.00", "120.00")

	code, err := referral.NewCode("KIVA01", uuid.New(), referrer.ID, referrer.ID, "", nil, nil)
	require.NoError(t, err)
	tx.CodeID = code.ID

	txRepo.On("FindByID", ctx, tx.ID).Return(tx, nil)
	codeRepo.On("FindByID", ctx, code.ID).Return(code, nil)
	userRepo.On("FindByIDs", ctx, []uuid.UUID{referrer.ID, redeemer.ID}).
		Return([]*identity.User{referrer, redeemer}, nil)

	detail, err := service.Get(ctx, GetTransactionInput{CallerID: referrer.ID, TransactionID: tx.ID})

	require.NoError(t, err)
	assert.Equal(t, "KIVA01", detail.Code)
	assert.Equal(t, "12.00", detail.CommissionAmount)
	assert.Equal(t, "120.00", detail.SaleAmount)
	assert.Equal(t, "EUR", detail.Currency)
	assert.Equal(t, "DUE", detail.Status)
	assert.Equal(t, "REFERRER", detail.Role)
	require.NotNil(t, detail.ReferringPartner)
	assert.Equal(t, "Referrer SARL", detail.ReferringPartner.CompanyName)
	require.NotNil(t, detail.RedeemingPartner)
	assert.Equal(t, "Redeemer GmbH", detail.RedeemingPartner.CompanyName)
}

func TestTransactionService_Get_NotFound(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	service := NewTransactionService(txRepo, new(MockCodeRepository), new(MockUserRepository), zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	txRepo.On("FindByID", ctx, id).Return(nil, errors.New("record not found"))

	detail, err := service.Get(ctx, GetTransactionInput{CallerID: uuid.New(), TransactionID: id})

	assert.Nil(t, detail)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestTransactionService_Get_Forbidden(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	codeRepo := new(MockCodeRepository)
	service := NewTransactionService(txRepo, codeRepo, new(MockUserRepository), zap.NewNop())
	ctx := context.Background()

	tx := dueTransaction(t, uuid.New(), uuid.New(), "12.00", "120.00")
	txRepo.On("FindByID", ctx, tx.ID).Return(tx, nil)

	detail, err := service.Get(ctx, GetTransactionInput{CallerID: uuid.New(), TransactionID: tx.ID})

	assert.Nil(t, detail)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	codeRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTransactionService_Get_PartnerLookupFailureStillReturns(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	codeRepo := new(MockCodeRepository)
	userRepo := new(MockUserRepository)
	service := NewTransactionService(txRepo, codeRepo, userRepo, zap.NewNop())
	ctx := context.Background()

	caller := uuid.New()
	tx := dueTransaction(t, caller, uuid.New(), "5.00", "50.00")

	txRepo.On("FindByID", ctx, tx.ID).Return(tx, nil)
	codeRepo.On("FindByID", ctx, tx.CodeID).Return(nil, errors.New("record not found"))
	userRepo.On("FindByIDs", ctx, mock.Anything).Return(nil, errors.New("db down"))

	detail, err := service.Get(ctx, GetTransactionInput{CallerID: caller, TransactionID: tx.ID})

	require.NoError(t, err)
	assert.Empty(t, detail.Code)
	assert.Nil(t, detail.ReferringPartner)
	assert.Equal(t, "5.00", detail.CommissionAmount)
}
