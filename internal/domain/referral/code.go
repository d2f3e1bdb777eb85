package referral

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CodeStatus represents the lifecycle state of a generated code
type CodeStatus string

const (
	// CodeStatusIssued means the code was generated and can still be redeemed
	CodeStatusIssued CodeStatus = "ISSUED"
	// CodeStatusRedeemed means the code was used exactly once at the owner's side
	CodeStatusRedeemed CodeStatus = "REDEEMED"
)

// String returns the string representation of CodeStatus
func (s CodeStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CodeStatus) IsValid() bool {
	switch s {
	case CodeStatusIssued, CodeStatusRedeemed:
		return true
	}
	return false
}

// Code is a single-use referral code issued against an offer for one client.
// It transitions ISSUED -> REDEEMED exactly once.
type Code struct {
	shared.BaseEntity
	CodeString         string
	OfferID            uuid.UUID
	IssuedByID         uuid.UUID
	ReferringPartnerID uuid.UUID
	ClientEmail        string
	ExpiresAt          *time.Time
	PurchaseHintValue  *decimal.Decimal
	Status             CodeStatus
	Metadata           map[string]any
	RedeemedAt         *time.Time
	RedeemedByID       *uuid.UUID
}

// NewCode creates an issued code
func NewCode(
	codeString string,
	offerID, issuedByID, referringPartnerID uuid.UUID,
	clientEmail string,
	expiresAt *time.Time,
	metadata map[string]any,
) (*Code, error) {
	if codeString == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Code string cannot be empty")
	}
	if offerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OFFER", "Offer ID cannot be empty")
	}
	if issuedByID == uuid.Nil || referringPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Issuer and referring partner are required")
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Code{
		BaseEntity:         shared.NewBaseEntity(),
		CodeString:         codeString,
		OfferID:            offerID,
		IssuedByID:         issuedByID,
		ReferringPartnerID: referringPartnerID,
		ClientEmail:        clientEmail,
		ExpiresAt:          expiresAt,
		Status:             CodeStatusIssued,
		Metadata:           metadata,
	}, nil
}

// WithPurchaseHint records the expected purchase value, rounded to two decimals
func (c *Code) WithPurchaseHint(value decimal.Decimal) *Code {
	rounded := value.Round(2)
	c.PurchaseHintValue = &rounded
	return c
}

// IsExpired returns true if the code has an expiry in the past
func (c *Code) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Redeem marks the code as used. It fails when the code is not ISSUED or has
// expired. The extra metadata is merged into the existing map; incoming keys
// win on collision, existing keys are preserved otherwise.
func (c *Code) Redeem(redeemerID uuid.UUID, at time.Time, extra map[string]any) error {
	if c.Status != CodeStatusIssued {
		return shared.NewDomainError("INVALID_STATE", "Code already used or inactive")
	}
	if c.IsExpired(at) {
		return shared.NewDomainError("EXPIRED", "Code has expired")
	}
	if redeemerID == uuid.Nil {
		return shared.NewDomainError("BAD_REQUEST", "Missing redeeming partner")
	}

	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	for k, v := range extra {
		c.Metadata[k] = v
	}

	c.Status = CodeStatusRedeemed
	c.RedeemedAt = &at
	c.RedeemedByID = &redeemerID
	c.UpdatedAt = at

	return nil
}
