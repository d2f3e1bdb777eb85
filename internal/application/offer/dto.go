package offer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOfferInput contains the input for publishing an offer
type CreateOfferInput struct {
	OwnerID         uuid.UUID
	Title           string
	Description     string
	TargetPartnerID uuid.UUID
	CommissionType  string
	CommissionValue decimal.Decimal
	Currency        string
	IsStackable     bool
	MaxPerClient    *int
	ValidFrom       *time.Time
	ValidTo         *time.Time
}

// ListPartnerOffersInput contains the input for listing offers targeted at a partner
type ListPartnerOffersInput struct {
	UserID    uuid.UUID
	PartnerID *uuid.UUID
	OrderBy   string
	OrderDir  string
	Limit     int
	Offset    int
}

// OwnerSummary is a compact view of the offer owner
type OwnerSummary struct {
	ID          uuid.UUID
	CompanyName string
	Email       string
}

// OfferResult is the offer view returned by the service
type OfferResult struct {
	ID              uuid.UUID
	Title           string
	Description     string
	OwnerID         uuid.UUID
	TargetPartnerID uuid.UUID
	PartnershipID   uuid.UUID
	CommissionType  string
	CommissionValue string
	Currency        string
	IsStackable     bool
	MaxPerClient    *int
	ValidFrom       *time.Time
	ValidTo         *time.Time
	Status          string
	CreatedAt       time.Time
	Owner           *OwnerSummary
}

// ListPartnerOffersResult contains a page of offers with the total count
type ListPartnerOffersResult struct {
	Offers []OfferResult
	Total  int64
}
