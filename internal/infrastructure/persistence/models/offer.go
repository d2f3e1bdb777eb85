package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OfferModel is the persistence model for the Offer domain entity.
type OfferModel struct {
	BaseModel
	Title           string               `gorm:"type:varchar(200);not null"`
	Description     string               `gorm:"type:text"`
	OwnerID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	TargetPartnerID uuid.UUID            `gorm:"type:uuid;not null;index"`
	PartnershipID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	CommissionType  offer.CommissionType `gorm:"type:varchar(20);not null"`
	CommissionValue decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency        string               `gorm:"type:varchar(3);not null;default:'EUR'"`
	IsStackable     bool                 `gorm:"not null;default:false"`
	MaxPerClient    *int
	ValidFrom       *time.Time
	ValidTo         *time.Time
	Status          offer.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (OfferModel) TableName() string {
	return "offers"
}

// ToDomain converts the persistence model to a domain Offer entity.
func (m *OfferModel) ToDomain() *offer.Offer {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &offer.Offer{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Title:           m.Title,
		Description:     m.Description,
		OwnerID:         m.OwnerID,
		TargetPartnerID: m.TargetPartnerID,
		PartnershipID:   m.PartnershipID,
		CommissionType:  m.CommissionType,
		CommissionValue: m.CommissionValue,
		Currency:        currency,
		IsStackable:     m.IsStackable,
		MaxPerClient:    m.MaxPerClient,
		ValidFrom:       m.ValidFrom,
		ValidTo:         m.ValidTo,
		Status:          m.Status,
	}
}

// FromDomain populates the persistence model from a domain Offer entity.
func (m *OfferModel) FromDomain(o *offer.Offer) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Title = o.Title
	m.Description = o.Description
	m.OwnerID = o.OwnerID
	m.TargetPartnerID = o.TargetPartnerID
	m.PartnershipID = o.PartnershipID
	m.CommissionType = o.CommissionType
	m.CommissionValue = o.CommissionValue
	m.Currency = string(o.Currency)
	m.IsStackable = o.IsStackable
	m.MaxPerClient = o.MaxPerClient
	m.ValidFrom = o.ValidFrom
	m.ValidTo = o.ValidTo
	m.Status = o.Status
}

// OfferModelFromDomain creates a new persistence model from a domain Offer entity.
func OfferModelFromDomain(o *offer.Offer) *OfferModel {
	m := &OfferModel{}
	m.FromDomain(o)
	return m
}
