package partnership

import (
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a partnership
type Status string

const (
	// StatusPending means the invite was sent but not yet accepted
	StatusPending Status = "PENDING"
	// StatusActive means the invitee accepted and both partners can trade offers
	StatusActive Status = "ACTIVE"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive:
		return true
	}
	return false
}

// Partnership links two registered partners. PartnerA is the inviter,
// PartnerB the invitee; only PartnerB can accept the invite token.
type Partnership struct {
	shared.BaseEntity
	PartnerAID  uuid.UUID
	PartnerBID  uuid.UUID
	Status      Status
	InviteToken string
	ActivatedAt *time.Time
	Metadata    map[string]any
}

// NewPartnership creates a pending partnership with a fresh invite token
func NewPartnership(inviterID, inviteeID uuid.UUID, metadata map[string]any) (*Partnership, error) {
	if inviterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Inviter ID cannot be empty")
	}
	if inviteeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Invitee ID cannot be empty")
	}
	if inviterID == inviteeID {
		return nil, shared.NewDomainError("BAD_REQUEST", "Cannot create a partnership with yourself")
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Partnership{
		BaseEntity:  shared.NewBaseEntity(),
		PartnerAID:  inviterID,
		PartnerBID:  inviteeID,
		Status:      StatusPending,
		InviteToken: uuid.NewString(),
		Metadata:    metadata,
	}, nil
}

// Accept transitions the partnership to ACTIVE. Only the invitee may accept.
// Accepting an already active partnership is a no-op.
func (p *Partnership) Accept(callerID uuid.UUID, at time.Time) error {
	if callerID != p.PartnerBID {
		return shared.NewDomainError("FORBIDDEN", "Only the invited partner can accept this invitation")
	}
	if p.Status == StatusActive {
		return nil
	}

	p.Status = StatusActive
	p.ActivatedAt = &at
	p.UpdatedAt = at

	return nil
}

// IsActive returns true if the partnership has been accepted
func (p *Partnership) IsActive() bool {
	return p.Status == StatusActive
}

// Involves returns true if the given partner is either side of the partnership
func (p *Partnership) Involves(partnerID uuid.UUID) bool {
	return p.PartnerAID == partnerID || p.PartnerBID == partnerID
}

// OtherPartner returns the counterparty of the given partner.
// Returns uuid.Nil if the partner is not part of the partnership.
func (p *Partnership) OtherPartner(partnerID uuid.UUID) uuid.UUID {
	switch partnerID {
	case p.PartnerAID:
		return p.PartnerBID
	case p.PartnerBID:
		return p.PartnerAID
	}
	return uuid.Nil
}
