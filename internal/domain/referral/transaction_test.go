package referral

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	commission, err := valueobject.NewMoneyFromString("12.00", valueobject.EUR)
	require.NoError(t, err)

	t.Run("creates DUE transaction with rounded amounts", func(t *testing.T) {
		tx, err := NewTransaction(uuid.New(), uuid.New(), uuid.New(),
			commission, decimal.RequireFromString("120.005"), nil)
		require.NoError(t, err)

		assert.Equal(t, TransactionStatusDue, tx.Status)
		assert.Equal(t, "12.00", tx.CommissionAmount.StringFixed(2))
		assert.Equal(t, "120.01", tx.SaleAmount.StringFixed(2))
		assert.Equal(t, valueobject.EUR, tx.SaleAmount.Currency())
		assert.NotNil(t, tx.Metadata)
	})

	t.Run("rejects missing code", func(t *testing.T) {
		_, err := NewTransaction(uuid.Nil, uuid.New(), uuid.New(), commission, decimal.NewFromInt(10), nil)
		require.Error(t, err)
	})

	t.Run("rejects missing partners", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), uuid.Nil, uuid.New(), commission, decimal.NewFromInt(10), nil)
		assert.Error(t, err)
		_, err = NewTransaction(uuid.New(), uuid.New(), uuid.Nil, commission, decimal.NewFromInt(10), nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative sale amount", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), uuid.New(), uuid.New(), commission, decimal.NewFromInt(-1), nil)
		require.Error(t, err)
	})
}

func TestTransactionStatus(t *testing.T) {
	t.Run("IsOwed excludes only VOID", func(t *testing.T) {
		assert.True(t, TransactionStatusDue.IsOwed())
		assert.True(t, TransactionStatusPartiallyPaid.IsOwed())
		assert.True(t, TransactionStatusPaid.IsOwed())
		assert.False(t, TransactionStatusVoid.IsOwed())
	})

	t.Run("IsPayable covers DUE and PARTIALLY_PAID", func(t *testing.T) {
		assert.True(t, TransactionStatusDue.IsPayable())
		assert.True(t, TransactionStatusPartiallyPaid.IsPayable())
		assert.False(t, TransactionStatusPaid.IsPayable())
		assert.False(t, TransactionStatusVoid.IsPayable())
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, TransactionStatusDue.IsValid())
		assert.False(t, TransactionStatus("REFUNDED").IsValid())
	})
}

func TestTransactionRoles(t *testing.T) {
	referrer := uuid.New()
	redeemer := uuid.New()
	commission, err := valueobject.NewMoneyFromString("5.00", valueobject.EUR)
	require.NoError(t, err)

	tx, err := NewTransaction(uuid.New(), referrer, redeemer, commission, decimal.NewFromInt(50), nil)
	require.NoError(t, err)

	assert.True(t, tx.Involves(referrer))
	assert.True(t, tx.Involves(redeemer))
	assert.False(t, tx.Involves(uuid.New()))

	assert.Equal(t, "REFERRER", tx.RoleFor(referrer))
	assert.Equal(t, "REDEEMER", tx.RoleFor(redeemer))
	assert.Equal(t, "", tx.RoleFor(uuid.New()))
}
