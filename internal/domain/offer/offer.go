package offer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CommissionType determines how the commission is derived from a sale
type CommissionType string

const (
	// CommissionTypePercentage pays a percentage of the sale amount
	CommissionTypePercentage CommissionType = "PERCENTAGE"
	// CommissionTypeFlat pays a fixed amount regardless of the sale
	CommissionTypeFlat CommissionType = "FLAT"
)

// String returns the string representation of CommissionType
func (t CommissionType) String() string {
	return string(t)
}

// IsValid returns true if the commission type is valid
func (t CommissionType) IsValid() bool {
	switch t {
	case CommissionTypePercentage, CommissionTypeFlat:
		return true
	}
	return false
}

// Status represents the publication state of an offer
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusArchived Status = "ARCHIVED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusArchived:
		return true
	}
	return false
}

// Offer is a commission deal published by its owner toward one target partner.
// The target partner refers clients; the owner redeems their codes and owes
// the commission.
type Offer struct {
	shared.BaseEntity
	Title           string
	Description     string
	OwnerID         uuid.UUID
	TargetPartnerID uuid.UUID
	PartnershipID   uuid.UUID
	CommissionType  CommissionType
	CommissionValue decimal.Decimal
	Currency        valueobject.Currency
	IsStackable     bool
	MaxPerClient    *int
	ValidFrom       *time.Time
	ValidTo         *time.Time
	Status          Status
}

// NewOffer creates an active offer. The commission value is stored rounded
// to two decimal places; the currency defaults to EUR when empty.
func NewOffer(
	title string,
	ownerID, targetPartnerID, partnershipID uuid.UUID,
	commissionType CommissionType,
	commissionValue decimal.Decimal,
	currency valueobject.Currency,
) (*Offer, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Offer title cannot be empty")
	}
	if ownerID == uuid.Nil || targetPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Owner and target partner are required")
	}
	if ownerID == targetPartnerID {
		return nil, shared.NewDomainError("BAD_REQUEST", "Offer owner and target partner must differ")
	}
	if partnershipID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNERSHIP", "Partnership ID is required")
	}
	if !commissionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMMISSION_TYPE", "Invalid commission type")
	}
	if commissionValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION_VALUE", "Commission value cannot be negative")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	return &Offer{
		BaseEntity:      shared.NewBaseEntity(),
		Title:           title,
		OwnerID:         ownerID,
		TargetPartnerID: targetPartnerID,
		PartnershipID:   partnershipID,
		CommissionType:  commissionType,
		CommissionValue: commissionValue.Round(2),
		Currency:        currency,
		Status:          StatusActive,
	}, nil
}

// WithDescription sets the offer description
func (o *Offer) WithDescription(description string) *Offer {
	o.Description = strings.TrimSpace(description)
	return o
}

// WithValidity sets the validity window
func (o *Offer) WithValidity(from, to *time.Time) *Offer {
	o.ValidFrom = from
	o.ValidTo = to
	return o
}

// WithStackable marks the offer as stackable with other offers
func (o *Offer) WithStackable(stackable bool) *Offer {
	o.IsStackable = stackable
	return o
}

// WithMaxPerClient caps how many codes a single client may redeem
func (o *Offer) WithMaxPerClient(max int) *Offer {
	o.MaxPerClient = &max
	return o
}

// IsActive returns true if the offer is currently published
func (o *Offer) IsActive() bool {
	return o.Status == StatusActive
}

// IsTargetedAt returns true if the offer is intended for the given partner
func (o *Offer) IsTargetedAt(partnerID uuid.UUID) bool {
	return o.TargetPartnerID == partnerID
}

// IsOwnedBy returns true if the given partner owns the offer
func (o *Offer) IsOwnedBy(partnerID uuid.UUID) bool {
	return o.OwnerID == partnerID
}

// CommissionOn computes the commission owed for a sale of the given amount,
// rounded to two decimal places. Percentage offers take their share of the
// sale; flat offers ignore the sale amount entirely.
func (o *Offer) CommissionOn(saleAmount decimal.Decimal) valueobject.Money {
	value := o.CommissionValue
	if o.CommissionType == CommissionTypePercentage {
		value = saleAmount.Mul(o.CommissionValue).Div(decimal.NewFromInt(100))
	}
	money, _ := valueobject.NewMoney(value, o.Currency)
	return money.Round(2)
}
