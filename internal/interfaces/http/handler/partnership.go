package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnershipapp "github.com/kivalao/backend/internal/application/partnership"
)

// PartnershipHandler handles partnership invitation API endpoints
type PartnershipHandler struct {
	BaseHandler
	partnershipService *partnershipapp.Service
}

// NewPartnershipHandler creates a new PartnershipHandler
func NewPartnershipHandler(partnershipService *partnershipapp.Service) *PartnershipHandler {
	return &PartnershipHandler{
		partnershipService: partnershipService,
	}
}

// InvitePartnerRequest represents a request to invite another partner
type InvitePartnerRequest struct {
	InviteeEmail   string `json:"invitee_email" binding:"required,email,max=200"`
	InviteeCompany string `json:"invitee_company" binding:"max=200"`
	Note           string `json:"note" binding:"max=500"`
}

// PartnershipResponse represents a partnership in API responses
type PartnershipResponse struct {
	ID          uuid.UUID      `json:"id"`
	PartnerAID  uuid.UUID      `json:"partner_a_id"`
	PartnerBID  uuid.UUID      `json:"partner_b_id"`
	Status      string         `json:"status"`
	InviteToken string         `json:"invite_token,omitempty"`
	ActivatedAt *time.Time     `json:"activated_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Invite creates a pending partnership and issues an invite token.
func (h *PartnershipHandler) Invite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req InvitePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.partnershipService.Invite(c.Request.Context(), partnershipapp.InviteInput{
		InviterID:      userID,
		InviteeEmail:   req.InviteeEmail,
		InviteeCompany: req.InviteeCompany,
		Note:           req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPartnershipResponse(result))
}

// Accept activates the pending partnership identified by the invite token.
func (h *PartnershipHandler) Accept(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	token := c.Param("token")
	if token == "" {
		h.BadRequest(c, "Invite token is required")
		return
	}

	result, err := h.partnershipService.Accept(c.Request.Context(), partnershipapp.AcceptInput{
		CallerID:    userID,
		InviteToken: token,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPartnershipResponse(result))
}

func toPartnershipResponse(p *partnershipapp.PartnershipResult) PartnershipResponse {
	return PartnershipResponse{
		ID:          p.ID,
		PartnerAID:  p.PartnerAID,
		PartnerBID:  p.PartnerBID,
		Status:      p.Status,
		InviteToken: p.InviteToken,
		ActivatedAt: p.ActivatedAt,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
	}
}
