package offer

import (
	"context"

	"github.com/google/uuid"
)

// DefaultListLimit is the default page size for offer listings
const DefaultListLimit = 20

// ListFilter contains filter options for listing offers targeted at a partner
type ListFilter struct {
	// TargetPartnerID selects offers intended for this partner
	TargetPartnerID uuid.UUID

	// OwnerIDs restricts results to offers owned by these partners
	OwnerIDs []uuid.UUID

	// Status filters by publication state when set
	Status *Status

	// Sorting; implementations fall back to newest-first when unset
	OrderBy  string
	OrderDir string

	// Pagination
	Limit  int
	Offset int
}

// NewListFilter creates a ListFilter with the default page size
func NewListFilter(targetPartnerID uuid.UUID) ListFilter {
	return ListFilter{
		TargetPartnerID: targetPartnerID,
		Limit:           DefaultListLimit,
	}
}

// Repository defines the interface for offer persistence
type Repository interface {
	// Create creates a new offer
	Create(ctx context.Context, o *Offer) error

	// Update updates an existing offer
	Update(ctx context.Context, o *Offer) error

	// FindByID finds an offer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)

	// List returns offers matching the filter, newest first, with the total count
	List(ctx context.Context, filter ListFilter) ([]*Offer, int64, error)
}
