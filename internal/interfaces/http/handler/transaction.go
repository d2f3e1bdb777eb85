package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/kivalao/backend/internal/application/ledger"
	"github.com/kivalao/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles commission transaction query endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *ledgerapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *ledgerapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionPartnerResponse is a compact partner view embedded in transaction details
type TransactionPartnerResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
}

// TransactionDetailResponse represents a commission transaction with both partner views
type TransactionDetailResponse struct {
	ID               uuid.UUID                   `json:"id"`
	Code             string                      `json:"code"`
	CommissionAmount string                      `json:"commission_amount"`
	SaleAmount       string                      `json:"sale_amount"`
	Currency         string                      `json:"currency"`
	Status           string                      `json:"status"`
	Role             string                      `json:"role"`
	ReferringPartner *TransactionPartnerResponse `json:"referring_partner,omitempty"`
	RedeemingPartner *TransactionPartnerResponse `json:"redeeming_partner,omitempty"`
	Metadata         map[string]any              `json:"metadata,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// Get returns a single commission transaction the caller took part in.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	txID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	detail, err := h.transactionService.Get(c.Request.Context(), ledgerapp.GetTransactionInput{
		CallerID:      userID,
		TransactionID: txID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTransactionDetailResponse(detail))
}

func toTransactionDetailResponse(d *ledgerapp.TransactionDetail) TransactionDetailResponse {
	resp := TransactionDetailResponse{
		ID:               d.ID,
		Code:             d.Code,
		CommissionAmount: d.CommissionAmount,
		SaleAmount:       d.SaleAmount,
		Currency:         d.Currency,
		Status:           d.Status,
		Role:             d.Role,
		Metadata:         d.Metadata,
		CreatedAt:        d.CreatedAt,
	}
	if d.ReferringPartner != nil {
		resp.ReferringPartner = &TransactionPartnerResponse{
			ID:          d.ReferringPartner.ID,
			CompanyName: d.ReferringPartner.CompanyName,
			Email:       d.ReferringPartner.Email,
		}
	}
	if d.RedeemingPartner != nil {
		resp.RedeemingPartner = &TransactionPartnerResponse{
			ID:          d.RedeemingPartner.ID,
			CompanyName: d.RedeemingPartner.CompanyName,
			Email:       d.RedeemingPartner.Email,
		}
	}
	return resp
}
