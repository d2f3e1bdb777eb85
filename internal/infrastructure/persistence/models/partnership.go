package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/partnership"
	"github.com/kivalao/backend/internal/domain/shared"
)

// PartnershipModel is the persistence model for the Partnership domain entity.
type PartnershipModel struct {
	BaseModel
	PartnerAID  uuid.UUID          `gorm:"type:uuid;not null;index:idx_partnerships_pair"`
	PartnerBID  uuid.UUID          `gorm:"type:uuid;not null;index:idx_partnerships_pair"`
	Status      partnership.Status `gorm:"type:varchar(20);not null;default:'PENDING'"`
	InviteToken string             `gorm:"type:varchar(36);not null;uniqueIndex"`
	ActivatedAt *time.Time
	Metadata    JSONMap `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (PartnershipModel) TableName() string {
	return "partnerships"
}

// ToDomain converts the persistence model to a domain Partnership entity.
func (m *PartnershipModel) ToDomain() *partnership.Partnership {
	return &partnership.Partnership{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PartnerAID:  m.PartnerAID,
		PartnerBID:  m.PartnerBID,
		Status:      m.Status,
		InviteToken: m.InviteToken,
		ActivatedAt: m.ActivatedAt,
		Metadata:    m.Metadata,
	}
}

// FromDomain populates the persistence model from a domain Partnership entity.
func (m *PartnershipModel) FromDomain(p *partnership.Partnership) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PartnerAID = p.PartnerAID
	m.PartnerBID = p.PartnerBID
	m.Status = p.Status
	m.InviteToken = p.InviteToken
	m.ActivatedAt = p.ActivatedAt
	m.Metadata = p.Metadata
}

// PartnershipModelFromDomain creates a new persistence model from a domain Partnership entity.
func PartnershipModelFromDomain(p *partnership.Partnership) *PartnershipModel {
	m := &PartnershipModel{}
	m.FromDomain(p)
	return m
}
