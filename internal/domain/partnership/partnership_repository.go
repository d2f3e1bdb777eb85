package partnership

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for partnership persistence
type Repository interface {
	// Create creates a new partnership
	Create(ctx context.Context, p *Partnership) error

	// Update updates an existing partnership
	Update(ctx context.Context, p *Partnership) error

	// FindByID finds a partnership by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Partnership, error)

	// FindByInviteToken finds a partnership by its invite token
	FindByInviteToken(ctx context.Context, token string) (*Partnership, error)

	// FindBetween finds a partnership between two partners in either direction
	FindBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*Partnership, error)

	// FindActiveBetween finds an ACTIVE partnership between two partners in either direction
	FindActiveBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*Partnership, error)

	// FindActiveByPartner returns all ACTIVE partnerships involving the partner
	FindActiveByPartner(ctx context.Context, partnerID uuid.UUID) ([]*Partnership, error)
}
