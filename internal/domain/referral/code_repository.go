package referral

import (
	"context"

	"github.com/google/uuid"
)

// CodeRepository defines the interface for generated code persistence
type CodeRepository interface {
	// Create creates a new code
	Create(ctx context.Context, code *Code) error

	// Update persists code state changes
	Update(ctx context.Context, code *Code) error

	// FindByID finds a code by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Code, error)

	// FindByIDs loads the codes for the given IDs. Missing IDs are
	// silently absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Code, error)

	// FindByCodeString finds a code by its code string
	FindByCodeString(ctx context.Context, codeString string) (*Code, error)

	// ExistsByCodeString checks whether a code string is already taken
	ExistsByCodeString(ctx context.Context, codeString string) (bool, error)
}
