package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	referralapp "github.com/kivalao/backend/internal/application/referral"
)

// CodeHandler handles referral code issuance and redemption endpoints
type CodeHandler struct {
	BaseHandler
	codeService *referralapp.CodeService
}

// NewCodeHandler creates a new CodeHandler
func NewCodeHandler(codeService *referralapp.CodeService) *CodeHandler {
	return &CodeHandler{
		codeService: codeService,
	}
}

// GenerateCodeRequest represents a request to issue a referral code
type GenerateCodeRequest struct {
	OfferID           string     `json:"offer_id" binding:"required,uuid"`
	ClientEmail       string     `json:"client_email" binding:"required,email,max=200"`
	ExpiresAt         *time.Time `json:"expires_at"`
	PurchaseHintValue *float64   `json:"purchase_hint_value" binding:"omitempty,gt=0"`
	Channel           string     `json:"channel" binding:"max=50"`
}

// ValidateCodeRequest represents a request to redeem a code at the point of sale
type ValidateCodeRequest struct {
	Code          string  `json:"code" binding:"required,min=4,max=32"`
	PurchaseValue float64 `json:"purchase_value" binding:"required,gt=0"`
	Channel       string  `json:"channel" binding:"max=50"`
	POSReference  string  `json:"pos_reference" binding:"max=100"`
}

// CodeResponse represents an issued referral code in API responses
type CodeResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Code               string         `json:"code"`
	OfferID            uuid.UUID      `json:"offer_id"`
	IssuedByID         uuid.UUID      `json:"issued_by_id"`
	ReferringPartnerID uuid.UUID      `json:"referring_partner_id"`
	ClientEmail        string         `json:"client_email"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	PurchaseHintValue  *string        `json:"purchase_hint_value,omitempty"`
	Status             string         `json:"status"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// RedeemedCodeResponse is the compact code view returned after redemption
type RedeemedCodeResponse struct {
	Value      string     `json:"value"`
	Status     string     `json:"status"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	OfferTitle string     `json:"offer_title,omitempty"`
}

// TransactionResponse represents a commission transaction in API responses
type TransactionResponse struct {
	ID                 uuid.UUID      `json:"id"`
	CodeID             uuid.UUID      `json:"code_id"`
	ReferringPartnerID uuid.UUID      `json:"referring_partner_id"`
	RedeemingPartnerID uuid.UUID      `json:"redeeming_partner_id"`
	CommissionAmount   string         `json:"commission_amount"`
	SaleAmount         string         `json:"sale_amount"`
	Currency           string         `json:"currency"`
	Status             string         `json:"status"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ValidateCodeResponse bundles the redeemed code with the created transaction
type ValidateCodeResponse struct {
	Code        RedeemedCodeResponse `json:"code"`
	Transaction TransactionResponse  `json:"transaction"`
}

// Generate issues a single-use referral code against one of the caller's offers.
func (h *CodeHandler) Generate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	offerID, err := uuid.Parse(req.OfferID)
	if err != nil {
		h.BadRequest(c, "Invalid offer ID")
		return
	}

	// The caller both issues the code and earns the referral commission
	input := referralapp.GenerateCodeInput{
		IssuerID:           userID,
		ReferringPartnerID: userID,
		OfferID:            offerID,
		ClientEmail:        req.ClientEmail,
		ExpiresAt:          req.ExpiresAt,
		Channel:            req.Channel,
	}
	if req.PurchaseHintValue != nil {
		input.PurchaseHintValue = toDecimalPtr(*req.PurchaseHintValue)
	}

	result, err := h.codeService.Generate(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CodeResponse{
		ID:                 result.ID,
		Code:               result.CodeString,
		OfferID:            result.OfferID,
		IssuedByID:         result.IssuedByID,
		ReferringPartnerID: result.ReferringPartnerID,
		ClientEmail:        result.ClientEmail,
		ExpiresAt:          result.ExpiresAt,
		PurchaseHintValue:  result.PurchaseHintValue,
		Status:             result.Status,
		Metadata:           result.Metadata,
		CreatedAt:          result.CreatedAt,
	})
}

// Validate redeems a code at the point of sale and records the commission owed.
func (h *CodeHandler) Validate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.codeService.Validate(c.Request.Context(), referralapp.ValidateCodeInput{
		RedeemingPartnerID: userID,
		Code:               req.Code,
		PurchaseValue:      toDecimal(req.PurchaseValue),
		Channel:            req.Channel,
		POSReference:       req.POSReference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ValidateCodeResponse{
		Code: RedeemedCodeResponse{
			Value:      result.Code.Value,
			Status:     result.Code.Status,
			RedeemedAt: result.Code.RedeemedAt,
			OfferTitle: result.Code.OfferTitle,
		},
		Transaction: toTransactionResponse(result.Transaction),
	})
}

func toTransactionResponse(t referralapp.TransactionResult) TransactionResponse {
	return TransactionResponse{
		ID:                 t.ID,
		CodeID:             t.CodeID,
		ReferringPartnerID: t.ReferringPartnerID,
		RedeemingPartnerID: t.RedeemingPartnerID,
		CommissionAmount:   t.CommissionAmount,
		SaleAmount:         t.SaleAmount,
		Currency:           t.Currency,
		Status:             t.Status,
		Metadata:           t.Metadata,
		CreatedAt:          t.CreatedAt,
	}
}
