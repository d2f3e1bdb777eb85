package ledger

import (
	"time"

	"github.com/google/uuid"
)

// GetTransactionInput contains the input for looking up a commission transaction
type GetTransactionInput struct {
	CallerID      uuid.UUID
	TransactionID uuid.UUID
}

// PartnerSummary is a compact partner view embedded in transaction details
type PartnerSummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
}

// TransactionDetail is the full view of a commission transaction
type TransactionDetail struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	CommissionAmount string          `json:"commission_amount"`
	SaleAmount       string          `json:"sale_amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Role             string          `json:"role"`
	ReferringPartner *PartnerSummary `json:"referring_partner,omitempty"`
	RedeemingPartner *PartnerSummary `json:"redeeming_partner,omitempty"`
	Metadata         map[string]any  `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// GetBalanceInput contains the input for the dashboard balance view
type GetBalanceInput struct {
	PartnerID uuid.UUID
}

// RecentTransactionView is a single row of the dashboard transaction feed
type RecentTransactionView struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Role             string    `json:"role"`
	CommissionAmount string    `json:"commission_amount"`
	SaleAmount       string    `json:"sale_amount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// BalanceResult is the dashboard balance summary for one partner
type BalanceResult struct {
	PartnerID          uuid.UUID               `json:"partner_id"`
	YouAreOwed         string                  `json:"you_are_owed"`
	YouOwe             string                  `json:"you_owe"`
	NetBalance         string                  `json:"net_balance"`
	Currency           string                  `json:"currency"`
	RecentTransactions []RecentTransactionView `json:"recent_transactions"`
	ComputedAt         time.Time               `json:"computed_at"`
}
