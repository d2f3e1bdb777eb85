package partnership

import (
	"context"
	"errors"
	"time"

	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/partnership"
	"github.com/kivalao/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles the partnership invite/accept lifecycle
type Service struct {
	partnershipRepo partnership.Repository
	userRepo        identity.UserRepository
	logger          *zap.Logger
}

// NewService creates a new partnership service
func NewService(
	partnershipRepo partnership.Repository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		partnershipRepo: partnershipRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// Invite creates a pending partnership toward an already registered partner.
// The invitee is addressed by email and must have an account.
func (s *Service) Invite(ctx context.Context, input InviteInput) (*PartnershipResult, error) {
	email := identity.NormalizeEmail(input.InviteeEmail)
	s.logger.Info("Partnership invitation",
		zap.String("inviter_id", input.InviterID.String()),
		zap.String("invitee_email", email))

	invitee, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Invitee not registered", zap.String("invitee_email", email))
		return nil, shared.NewDomainError("NOT_FOUND", "Invitee must register before accepting invitations")
	}

	if invitee.ID == input.InviterID {
		return nil, shared.NewDomainError("BAD_REQUEST", "You cannot invite yourself")
	}

	existing, err := s.partnershipRepo.FindBetween(ctx, input.InviterID, invitee.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up existing partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create partnership")
	}
	if existing != nil {
		s.logger.Warn("Partnership already exists",
			zap.String("inviter_id", input.InviterID.String()),
			zap.String("invitee_id", invitee.ID.String()))
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A partnership already exists between these partners")
	}

	metadata := map[string]any{}
	if input.Note != "" {
		metadata["note"] = input.Note
	}
	if input.InviteeCompany != "" {
		metadata["inviteeCompany"] = input.InviteeCompany
	}

	p, err := partnership.NewPartnership(input.InviterID, invitee.ID, metadata)
	if err != nil {
		return nil, err
	}

	if err := s.partnershipRepo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to create partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create partnership")
	}

	s.logger.Info("Partnership invitation created",
		zap.String("partnership_id", p.ID.String()),
		zap.String("invitee_id", invitee.ID.String()))

	result := toResult(p)
	return &result, nil
}

// Accept activates a pending partnership through its invite token.
// Only the invited partner may accept; accepting an active partnership
// returns it unchanged.
func (s *Service) Accept(ctx context.Context, input AcceptInput) (*PartnershipResult, error) {
	p, err := s.partnershipRepo.FindByInviteToken(ctx, input.InviteToken)
	if err != nil {
		s.logger.Warn("Invitation token not found")
		return nil, shared.NewDomainError("NOT_FOUND", "Invitation not found")
	}

	alreadyActive := p.IsActive()

	if err := p.Accept(input.CallerID, time.Now()); err != nil {
		return nil, err
	}

	if !alreadyActive {
		if err := s.partnershipRepo.Update(ctx, p); err != nil {
			s.logger.Error("Failed to activate partnership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
		}
		s.logger.Info("Partnership activated",
			zap.String("partnership_id", p.ID.String()),
			zap.String("partner_id", input.CallerID.String()))
	}

	result := toResult(p)
	return &result, nil
}

func toResult(p *partnership.Partnership) PartnershipResult {
	return PartnershipResult{
		ID:          p.ID,
		PartnerAID:  p.PartnerAID,
		PartnerBID:  p.PartnerBID,
		Status:      p.Status.String(),
		InviteToken: p.InviteToken,
		ActivatedAt: p.ActivatedAt,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
	}
}
