package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CodeModel is the persistence model for the referral Code domain entity.
type CodeModel struct {
	BaseModel
	CodeString         string    `gorm:"type:varchar(12);not null;uniqueIndex"`
	OfferID            uuid.UUID `gorm:"type:uuid;not null;index"`
	IssuedByID         uuid.UUID `gorm:"type:uuid;not null"`
	ReferringPartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClientEmail        string    `gorm:"type:varchar(200)"`
	ExpiresAt          *time.Time
	PurchaseHintValue  *decimal.Decimal    `gorm:"type:decimal(18,2)"`
	Status             referral.CodeStatus `gorm:"type:varchar(20);not null;default:'ISSUED';index"`
	Metadata           JSONMap             `gorm:"type:jsonb;default:'{}'"`
	RedeemedAt         *time.Time
	RedeemedByID       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CodeModel) TableName() string {
	return "generated_codes"
}

// ToDomain converts the persistence model to a domain Code entity.
func (m *CodeModel) ToDomain() *referral.Code {
	return &referral.Code{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CodeString:         m.CodeString,
		OfferID:            m.OfferID,
		IssuedByID:         m.IssuedByID,
		ReferringPartnerID: m.ReferringPartnerID,
		ClientEmail:        m.ClientEmail,
		ExpiresAt:          m.ExpiresAt,
		PurchaseHintValue:  m.PurchaseHintValue,
		Status:             m.Status,
		Metadata:           m.Metadata,
		RedeemedAt:         m.RedeemedAt,
		RedeemedByID:       m.RedeemedByID,
	}
}

// FromDomain populates the persistence model from a domain Code entity.
func (m *CodeModel) FromDomain(c *referral.Code) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CodeString = c.CodeString
	m.OfferID = c.OfferID
	m.IssuedByID = c.IssuedByID
	m.ReferringPartnerID = c.ReferringPartnerID
	m.ClientEmail = c.ClientEmail
	m.ExpiresAt = c.ExpiresAt
	m.PurchaseHintValue = c.PurchaseHintValue
	m.Status = c.Status
	m.Metadata = c.Metadata
	m.RedeemedAt = c.RedeemedAt
	m.RedeemedByID = c.RedeemedByID
}

// CodeModelFromDomain creates a new persistence model from a domain Code entity.
func CodeModelFromDomain(c *referral.Code) *CodeModel {
	m := &CodeModel{}
	m.FromDomain(c)
	return m
}

// TransactionModel is the persistence model for the commission Transaction entity.
type TransactionModel struct {
	BaseModel
	CodeID             uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ReferringPartnerID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	RedeemingPartnerID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	CommissionAmount   decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	SaleAmount         decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Currency           string                     `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status             referral.TransactionStatus `gorm:"type:varchar(20);not null;default:'DUE';index"`
	Metadata           JSONMap                    `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *referral.Transaction {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	commission, _ := valueobject.NewMoney(m.CommissionAmount, currency)
	sale, _ := valueobject.NewMoney(m.SaleAmount, currency)
	return &referral.Transaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CodeID:             m.CodeID,
		ReferringPartnerID: m.ReferringPartnerID,
		RedeemingPartnerID: m.RedeemingPartnerID,
		CommissionAmount:   commission,
		SaleAmount:         sale,
		Status:             m.Status,
		Metadata:           m.Metadata,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *referral.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.CodeID = t.CodeID
	m.ReferringPartnerID = t.ReferringPartnerID
	m.RedeemingPartnerID = t.RedeemingPartnerID
	m.CommissionAmount = t.CommissionAmount.Amount()
	m.SaleAmount = t.SaleAmount.Amount()
	m.Currency = string(t.CommissionAmount.Currency())
	m.Status = t.Status
	m.Metadata = t.Metadata
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *referral.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
