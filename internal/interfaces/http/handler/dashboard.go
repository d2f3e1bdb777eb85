package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/kivalao/backend/internal/application/ledger"
)

// DashboardHandler handles the partner dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *ledgerapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *ledgerapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// RecentTransactionResponse is one row of the dashboard transaction feed
type RecentTransactionResponse struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Role             string    `json:"role"`
	CommissionAmount string    `json:"commission_amount"`
	SaleAmount       string    `json:"sale_amount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// BalanceResponse represents the dashboard balance summary
type BalanceResponse struct {
	PartnerID          uuid.UUID                   `json:"partner_id"`
	YouAreOwed         string                      `json:"you_are_owed"`
	YouOwe             string                      `json:"you_owe"`
	NetBalance         string                      `json:"net_balance"`
	Currency           string                      `json:"currency"`
	RecentTransactions []RecentTransactionResponse `json:"recent_transactions"`
	ComputedAt         time.Time                   `json:"computed_at"`
}

// Balance returns the caller's aggregated commission balance with recent activity.
func (h *DashboardHandler) Balance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.dashboardService.GetBalance(c.Request.Context(), ledgerapp.GetBalanceInput{
		PartnerID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	recent := make([]RecentTransactionResponse, len(result.RecentTransactions))
	for i, t := range result.RecentTransactions {
		recent[i] = RecentTransactionResponse{
			ID:               t.ID,
			Code:             t.Code,
			Role:             t.Role,
			CommissionAmount: t.CommissionAmount,
			SaleAmount:       t.SaleAmount,
			Status:           t.Status,
			CreatedAt:        t.CreatedAt,
		}
	}

	h.Success(c, BalanceResponse{
		PartnerID:          result.PartnerID,
		YouAreOwed:         result.YouAreOwed,
		YouOwe:             result.YouOwe,
		NetBalance:         result.NetBalance,
		Currency:           result.Currency,
		RecentTransactions: recent,
		ComputedAt:         result.ComputedAt,
	})
}
