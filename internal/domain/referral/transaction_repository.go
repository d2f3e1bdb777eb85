package referral

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for commission transaction persistence
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// SumOwedToPartner sums commissions owed to the partner as referrer,
	// excluding VOID transactions
	SumOwedToPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error)

	// SumOwedByPartner sums commissions the partner still owes as redeemer,
	// counting only DUE and PARTIALLY_PAID transactions
	SumOwedByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error)

	// FindRecentByPartner returns the most recent transactions involving the
	// partner in either role, newest first
	FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*Transaction, error)
}
