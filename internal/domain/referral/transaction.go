package referral

import (
	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement state of a commission
type TransactionStatus string

const (
	// TransactionStatusDue means the commission is owed and unpaid
	TransactionStatusDue TransactionStatus = "DUE"
	// TransactionStatusPartiallyPaid means part of the commission was settled
	TransactionStatusPartiallyPaid TransactionStatus = "PARTIALLY_PAID"
	// TransactionStatusPaid means the commission was fully settled
	TransactionStatusPaid TransactionStatus = "PAID"
	// TransactionStatusVoid means the commission was cancelled
	TransactionStatusVoid TransactionStatus = "VOID"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusDue, TransactionStatusPartiallyPaid, TransactionStatusPaid, TransactionStatusVoid:
		return true
	}
	return false
}

// IsOwed returns true if the referring partner is still owed this commission
func (s TransactionStatus) IsOwed() bool {
	return s != TransactionStatusVoid
}

// IsPayable returns true if the redeeming partner still has to pay
func (s TransactionStatus) IsPayable() bool {
	return s == TransactionStatusDue || s == TransactionStatusPartiallyPaid
}

// Transaction is the immutable commission record created when a code is
// redeemed. Corrections happen through status changes, never by editing
// the amounts.
type Transaction struct {
	shared.BaseEntity
	CodeID             uuid.UUID
	ReferringPartnerID uuid.UUID
	RedeemingPartnerID uuid.UUID
	CommissionAmount   valueobject.Money
	SaleAmount         valueobject.Money
	Status             TransactionStatus
	Metadata           map[string]any
}

// NewTransaction creates a DUE commission transaction for a redeemed code.
// Both amounts are stored rounded to two decimal places.
func NewTransaction(
	codeID, referringPartnerID, redeemingPartnerID uuid.UUID,
	commission valueobject.Money,
	saleAmount decimal.Decimal,
	metadata map[string]any,
) (*Transaction, error) {
	if codeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CODE", "Code ID cannot be empty")
	}
	if referringPartnerID == uuid.Nil || redeemingPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Referring and redeeming partners are required")
	}
	if commission.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Commission cannot be negative")
	}
	if saleAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale amount cannot be negative")
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	sale, err := valueobject.NewMoney(saleAmount, commission.Currency())
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invalid sale amount")
	}

	return &Transaction{
		BaseEntity:         shared.NewBaseEntity(),
		CodeID:             codeID,
		ReferringPartnerID: referringPartnerID,
		RedeemingPartnerID: redeemingPartnerID,
		CommissionAmount:   commission.Round(2),
		SaleAmount:         sale.Round(2),
		Status:             TransactionStatusDue,
		Metadata:           metadata,
	}, nil
}

// Involves returns true if the partner is either side of the transaction
func (t *Transaction) Involves(partnerID uuid.UUID) bool {
	return t.ReferringPartnerID == partnerID || t.RedeemingPartnerID == partnerID
}

// RoleFor returns the partner's role in the transaction, or empty string
// if the partner is not involved.
func (t *Transaction) RoleFor(partnerID uuid.UUID) string {
	switch partnerID {
	case t.ReferringPartnerID:
		return "REFERRER"
	case t.RedeemingPartnerID:
		return "REDEEMER"
	}
	return ""
}
