package referral

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateCodeInput contains the input for issuing a referral code
type GenerateCodeInput struct {
	IssuerID           uuid.UUID
	ReferringPartnerID uuid.UUID
	OfferID            uuid.UUID
	ClientEmail        string
	ExpiresAt          *time.Time
	PurchaseHintValue  *decimal.Decimal
	Channel            string
}

// CodeResult is the code view returned after issuance
type CodeResult struct {
	ID                 uuid.UUID
	CodeString         string
	OfferID            uuid.UUID
	IssuedByID         uuid.UUID
	ReferringPartnerID uuid.UUID
	ClientEmail        string
	ExpiresAt          *time.Time
	PurchaseHintValue  *string
	Status             string
	Metadata           map[string]any
	CreatedAt          time.Time
}

// ValidateCodeInput contains the input for redeeming a code at the point of sale
type ValidateCodeInput struct {
	RedeemingPartnerID uuid.UUID
	Code               string
	PurchaseValue      decimal.Decimal
	Channel            string
	POSReference       string
}

// RedeemedCodeView is the compact code view returned after redemption
type RedeemedCodeView struct {
	Value      string
	Status     string
	RedeemedAt *time.Time
	OfferTitle string
}

// TransactionResult is the commission transaction view
type TransactionResult struct {
	ID                 uuid.UUID
	CodeID             uuid.UUID
	ReferringPartnerID uuid.UUID
	RedeemingPartnerID uuid.UUID
	CommissionAmount   string
	SaleAmount         string
	Currency           string
	Status             string
	Metadata           map[string]any
	CreatedAt          time.Time
}

// ValidateCodeResult bundles the redeemed code and the created transaction
type ValidateCodeResult struct {
	Code        RedeemedCodeView
	Transaction TransactionResult
}
