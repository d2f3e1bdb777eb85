package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	offerapp "github.com/kivalao/backend/internal/application/offer"
	"github.com/kivalao/backend/internal/interfaces/http/dto"
)

// OfferHandler handles commission offer API endpoints
type OfferHandler struct {
	BaseHandler
	offerService *offerapp.Service
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(offerService *offerapp.Service) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

// CreateOfferRequest represents a request to publish a commission offer
type CreateOfferRequest struct {
	Title           string     `json:"title" binding:"required,min=1,max=200"`
	Description     string     `json:"description" binding:"max=2000"`
	TargetPartnerID string     `json:"target_partner_id" binding:"required,uuid"`
	CommissionType  string     `json:"commission_type" binding:"required,oneof=PERCENTAGE FLAT"`
	CommissionValue float64    `json:"commission_value" binding:"required,gt=0"`
	Currency        string     `json:"currency" binding:"omitempty,len=3"`
	IsStackable     bool       `json:"is_stackable"`
	MaxPerClient    *int       `json:"max_per_client" binding:"omitempty,gt=0"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
}

// OfferOwnerResponse is a compact view of the partner that published an offer
type OfferOwnerResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
}

// OfferResponse represents a commission offer in API responses
type OfferResponse struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description,omitempty"`
	OwnerID         uuid.UUID           `json:"owner_id"`
	TargetPartnerID uuid.UUID           `json:"target_partner_id"`
	PartnershipID   uuid.UUID           `json:"partnership_id"`
	CommissionType  string              `json:"commission_type"`
	CommissionValue string              `json:"commission_value"`
	Currency        string              `json:"currency"`
	IsStackable     bool                `json:"is_stackable"`
	MaxPerClient    *int                `json:"max_per_client,omitempty"`
	ValidFrom       *time.Time          `json:"valid_from,omitempty"`
	ValidTo         *time.Time          `json:"valid_to,omitempty"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	Owner           *OfferOwnerResponse `json:"owner,omitempty"`
}

// Create publishes a commission offer toward an active partnership.
func (h *OfferHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	targetID, err := uuid.Parse(req.TargetPartnerID)
	if err != nil {
		h.BadRequest(c, "Invalid target partner ID")
		return
	}

	result, err := h.offerService.Create(c.Request.Context(), offerapp.CreateOfferInput{
		OwnerID:         userID,
		Title:           req.Title,
		Description:     req.Description,
		TargetPartnerID: targetID,
		CommissionType:  req.CommissionType,
		CommissionValue: toDecimal(req.CommissionValue),
		Currency:        req.Currency,
		IsStackable:     req.IsStackable,
		MaxPerClient:    req.MaxPerClient,
		ValidFrom:       req.ValidFrom,
		ValidTo:         req.ValidTo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOfferResponse(*result))
}

// ListPartnerOffers returns offers addressed to the authenticated partner.
func (h *OfferHandler) ListPartnerOffers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := offerapp.ListPartnerOffersInput{
		UserID:   userID,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Limit:    listReq.PageSize,
		Offset:   (listReq.Page - 1) * listReq.PageSize,
	}
	if raw := c.Query("partner_id"); raw != "" {
		partnerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid partner ID")
			return
		}
		input.PartnerID = &partnerID
	}

	result, err := h.offerService.ListPartnerOffers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	offers := make([]OfferResponse, len(result.Offers))
	for i, o := range result.Offers {
		offers[i] = toOfferResponse(o)
	}

	h.SuccessWithMeta(c, offers, result.Total, listReq.Page, listReq.PageSize)
}

func toOfferResponse(o offerapp.OfferResult) OfferResponse {
	resp := OfferResponse{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		OwnerID:         o.OwnerID,
		TargetPartnerID: o.TargetPartnerID,
		PartnershipID:   o.PartnershipID,
		CommissionType:  o.CommissionType,
		CommissionValue: o.CommissionValue,
		Currency:        o.Currency,
		IsStackable:     o.IsStackable,
		MaxPerClient:    o.MaxPerClient,
		ValidFrom:       o.ValidFrom,
		ValidTo:         o.ValidTo,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
	if o.Owner != nil {
		resp.Owner = &OfferOwnerResponse{
			ID:          o.Owner.ID,
			CompanyName: o.Owner.CompanyName,
			Email:       o.Owner.Email,
		}
	}
	return resp
}
