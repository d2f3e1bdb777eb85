package partnership

import (
	"time"

	"github.com/google/uuid"
)

// InviteInput contains the input for inviting a partner
type InviteInput struct {
	InviterID      uuid.UUID
	InviteeEmail   string
	InviteeCompany string
	Note           string
}

// AcceptInput contains the input for accepting an invitation
type AcceptInput struct {
	CallerID    uuid.UUID
	InviteToken string
}

// PartnershipResult is the partnership view returned by the service
type PartnershipResult struct {
	ID          uuid.UUID
	PartnerAID  uuid.UUID
	PartnerBID  uuid.UUID
	Status      string
	InviteToken string
	ActivatedAt *time.Time
	Metadata    map[string]any
	CreatedAt   time.Time
}
