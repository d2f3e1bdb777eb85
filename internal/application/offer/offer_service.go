package offer

import (
	"context"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/partnership"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Service handles offer publication and discovery
type Service struct {
	offerRepo       offer.Repository
	partnershipRepo partnership.Repository
	userRepo        identity.UserRepository
	logger          *zap.Logger
}

// NewService creates a new offer service
func NewService(
	offerRepo offer.Repository,
	partnershipRepo partnership.Repository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		offerRepo:       offerRepo,
		partnershipRepo: partnershipRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// Create publishes an offer toward a target partner. An ACTIVE partnership
// between owner and target is required.
func (s *Service) Create(ctx context.Context, input CreateOfferInput) (*OfferResult, error) {
	s.logger.Info("Offer creation",
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("target_partner_id", input.TargetPartnerID.String()))

	active, err := s.partnershipRepo.FindActiveBetween(ctx, input.OwnerID, input.TargetPartnerID)
	if err != nil || active == nil {
		s.logger.Warn("No active partnership for offer",
			zap.String("owner_id", input.OwnerID.String()),
			zap.String("target_partner_id", input.TargetPartnerID.String()))
		return nil, shared.NewDomainError("FORBIDDEN", "No active partnership with this partner")
	}

	o, err := offer.NewOffer(
		input.Title,
		input.OwnerID,
		input.TargetPartnerID,
		active.ID,
		offer.CommissionType(input.CommissionType),
		input.CommissionValue,
		valueobject.Currency(input.Currency),
	)
	if err != nil {
		return nil, err
	}
	o.WithDescription(input.Description).
		WithValidity(input.ValidFrom, input.ValidTo).
		WithStackable(input.IsStackable)
	if input.MaxPerClient != nil {
		o.WithMaxPerClient(*input.MaxPerClient)
	}

	if err := s.offerRepo.Create(ctx, o); err != nil {
		s.logger.Error("Failed to create offer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create offer")
	}

	s.logger.Info("Offer created",
		zap.String("offer_id", o.ID.String()),
		zap.String("partnership_id", active.ID.String()))

	result := toResult(o, nil)
	return &result, nil
}

// ListPartnerOffers returns ACTIVE offers targeted at the caller, owned by
// partners in the caller's active network. An optional partner filter must
// belong to the network.
func (s *Service) ListPartnerOffers(ctx context.Context, input ListPartnerOffersInput) (*ListPartnerOffersResult, error) {
	partnerships, err := s.partnershipRepo.FindActiveByPartner(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to load partnerships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list offers")
	}

	if len(partnerships) == 0 {
		return &ListPartnerOffersResult{Offers: []OfferResult{}}, nil
	}

	networkSet := make(map[uuid.UUID]struct{}, len(partnerships))
	for _, p := range partnerships {
		if other := p.OtherPartner(input.UserID); other != uuid.Nil {
			networkSet[other] = struct{}{}
		}
	}

	var ownerIDs []uuid.UUID
	if input.PartnerID != nil {
		if _, ok := networkSet[*input.PartnerID]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Partner not found in your network")
		}
		ownerIDs = []uuid.UUID{*input.PartnerID}
	} else {
		ownerIDs = make([]uuid.UUID, 0, len(networkSet))
		for id := range networkSet {
			ownerIDs = append(ownerIDs, id)
		}
	}

	filter := offer.NewListFilter(input.UserID)
	filter.OwnerIDs = ownerIDs
	activeStatus := offer.StatusActive
	filter.Status = &activeStatus
	filter.OrderBy = input.OrderBy
	filter.OrderDir = input.OrderDir
	if input.Limit > 0 {
		filter.Limit = input.Limit
	}
	filter.Offset = input.Offset

	offers, total, err := s.offerRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list offers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list offers")
	}

	owners, err := s.loadOwnerSummaries(ctx, offers)
	if err != nil {
		s.logger.Error("Failed to load offer owners", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list offers")
	}

	results := make([]OfferResult, 0, len(offers))
	for _, o := range offers {
		results = append(results, toResult(o, owners[o.OwnerID]))
	}

	return &ListPartnerOffersResult{Offers: results, Total: total}, nil
}

func (s *Service) loadOwnerSummaries(ctx context.Context, offers []*offer.Offer) (map[uuid.UUID]*OwnerSummary, error) {
	if len(offers) == 0 {
		return map[uuid.UUID]*OwnerSummary{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(offers))
	ids := make([]uuid.UUID, 0, len(offers))
	for _, o := range offers {
		if _, ok := seen[o.OwnerID]; !ok {
			seen[o.OwnerID] = struct{}{}
			ids = append(ids, o.OwnerID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make(map[uuid.UUID]*OwnerSummary, len(users))
	for _, u := range users {
		summaries[u.ID] = &OwnerSummary{
			ID:          u.ID,
			CompanyName: u.CompanyName,
			Email:       u.Email,
		}
	}
	return summaries, nil
}

func toResult(o *offer.Offer, owner *OwnerSummary) OfferResult {
	return OfferResult{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		OwnerID:         o.OwnerID,
		TargetPartnerID: o.TargetPartnerID,
		PartnershipID:   o.PartnershipID,
		CommissionType:  o.CommissionType.String(),
		CommissionValue: o.CommissionValue.StringFixed(2),
		Currency:        string(o.Currency),
		IsStackable:     o.IsStackable,
		MaxPerClient:    o.MaxPerClient,
		ValidFrom:       o.ValidFrom,
		ValidTo:         o.ValidTo,
		Status:          o.Status.String(),
		CreatedAt:       o.CreatedAt,
		Owner:           owner,
	}
}
