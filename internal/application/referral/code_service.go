package referral

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Attempts to draw a fresh code string before giving up
const maxCodeGenerationAttempts = 5

// Default channels recorded in metadata when the caller does not send one
const (
	defaultIssueChannel  = "manual"
	defaultRedeemChannel = "pos"
)

// RedemptionNotifier publishes a redemption event to an external consumer.
// Implementations must not block redemption on delivery failures.
type RedemptionNotifier interface {
	NotifyRedemption(ctx context.Context, transactionID uuid.UUID, codeString string)
}

// BalanceCacheInvalidator drops a partner's cached balance snapshot
type BalanceCacheInvalidator interface {
	Invalidate(ctx context.Context, partnerID uuid.UUID) error
}

// CodeService handles referral code issuance and redemption
type CodeService struct {
	codeRepo  referral.CodeRepository
	offerRepo offer.Repository
	scope     TransactionScope
	notifier  RedemptionNotifier
	cache     BalanceCacheInvalidator
	logger    *zap.Logger
}

// NewCodeService creates a new code service
func NewCodeService(
	codeRepo referral.CodeRepository,
	offerRepo offer.Repository,
	scope TransactionScope,
	notifier RedemptionNotifier,
	cache BalanceCacheInvalidator,
	logger *zap.Logger,
) *CodeService {
	return &CodeService{
		codeRepo:  codeRepo,
		offerRepo: offerRepo,
		scope:     scope,
		notifier:  notifier,
		cache:     cache,
		logger:    logger,
	}
}

// Generate issues a referral code against an offer. Only the partner the
// offer targets may refer clients through it.
func (s *CodeService) Generate(ctx context.Context, input GenerateCodeInput) (*CodeResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "referral", "generate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOfferID, input.OfferID.String(),
		telemetry.SpanAttrPartnerID, input.ReferringPartnerID.String(),
	)

	s.logger.Info("Code generation",
		zap.String("offer_id", input.OfferID.String()),
		zap.String("referring_partner_id", input.ReferringPartnerID.String()))

	o, err := s.offerRepo.FindByID(ctx, input.OfferID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("NOT_FOUND", "Offer not found")
	}

	if !o.IsTargetedAt(input.ReferringPartnerID) {
		s.logger.Warn("Offer not intended for partner",
			zap.String("offer_id", o.ID.String()),
			zap.String("referring_partner_id", input.ReferringPartnerID.String()))
		return nil, shared.NewDomainError("FORBIDDEN", "Offer is not intended for this partner")
	}

	codeString, err := s.uniqueCodeString(ctx)
	if err != nil {
		return nil, err
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		expiresAt = o.ValidTo
	}

	channel := input.Channel
	if channel == "" {
		channel = defaultIssueChannel
	}

	code, err := referral.NewCode(
		codeString,
		o.ID,
		input.IssuerID,
		input.ReferringPartnerID,
		identity.NormalizeEmail(input.ClientEmail),
		expiresAt,
		map[string]any{"channel": channel},
	)
	if err != nil {
		return nil, err
	}
	if input.PurchaseHintValue != nil {
		code.WithPurchaseHint(*input.PurchaseHintValue)
	}

	if err := s.codeRepo.Create(ctx, code); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to create code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate code")
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrCodeID, code.ID.String())

	s.logger.Info("Code issued",
		zap.String("code_id", code.ID.String()),
		zap.String("code", code.CodeString))

	result := toCodeResult(code)
	return &result, nil
}

// Validate redeems a code at the redeeming partner's point of sale. The code
// state change and the commission transaction are committed atomically; the
// webhook notification and cache invalidation happen after the commit and
// never fail the redemption.
func (s *CodeService) Validate(ctx context.Context, input ValidateCodeInput) (*ValidateCodeResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "referral", "validate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPartnerID, input.RedeemingPartnerID.String(),
		telemetry.SpanAttrAmount, input.PurchaseValue.String(),
	)

	if input.RedeemingPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Missing redeeming partner context")
	}

	now := time.Now()

	var (
		redeemedCode *referral.Code
		created      *referral.Transaction
		offerTitle   string
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		code, err := repos.CodeRepo().FindByCodeString(ctx, input.Code)
		if err != nil {
			return shared.NewDomainError("NOT_FOUND", "Unknown code")
		}

		if code.Status != referral.CodeStatusIssued {
			return shared.NewDomainError("INVALID_STATE", "Code already used or inactive")
		}
		if code.IsExpired(now) {
			return shared.NewDomainError("EXPIRED", "Code has expired")
		}

		o, err := s.offerRepo.FindByID(ctx, code.OfferID)
		if err != nil {
			s.logger.Error("Offer missing for code",
				zap.String("code_id", code.ID.String()),
				zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate code")
		}

		if !o.IsOwnedBy(input.RedeemingPartnerID) {
			return shared.NewDomainError("FORBIDDEN", "This partner does not own this offer")
		}

		channel := input.Channel
		if channel == "" {
			channel = defaultRedeemChannel
		}
		extra := map[string]any{"channel": channel}
		if input.POSReference != "" {
			extra["posReference"] = input.POSReference
		}

		if err := code.Redeem(input.RedeemingPartnerID, now, extra); err != nil {
			return err
		}
		if err := repos.CodeRepo().Update(ctx, code); err != nil {
			s.logger.Error("Failed to update code", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to redeem code")
		}

		commission := o.CommissionOn(input.PurchaseValue)

		txMetadata := map[string]any{}
		if input.Channel != "" {
			txMetadata["channel"] = input.Channel
		}
		if input.POSReference != "" {
			txMetadata["posReference"] = input.POSReference
		}

		tx, err := referral.NewTransaction(
			code.ID,
			code.ReferringPartnerID,
			input.RedeemingPartnerID,
			commission,
			input.PurchaseValue,
			txMetadata,
		)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			s.logger.Error("Failed to create transaction", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to record commission")
		}

		redeemedCode = code
		created = tx
		offerTitle = o.Title
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "code_redeemed",
		telemetry.SpanAttrCodeID, redeemedCode.ID.String(),
		telemetry.SpanAttrTransactionID, created.ID.String(),
	)

	s.logger.Info("Code redeemed",
		zap.String("code", redeemedCode.CodeString),
		zap.String("transaction_id", created.ID.String()),
		zap.String("commission", created.CommissionAmount.StringFixed(2)))

	s.afterRedemption(created, redeemedCode)

	return &ValidateCodeResult{
		Code: RedeemedCodeView{
			Value:      redeemedCode.CodeString,
			Status:     redeemedCode.Status.String(),
			RedeemedAt: redeemedCode.RedeemedAt,
			OfferTitle: offerTitle,
		},
		Transaction: toTransactionResult(created),
	}, nil
}

// afterRedemption runs the best-effort side effects of a committed redemption
func (s *CodeService) afterRedemption(tx *referral.Transaction, code *referral.Code) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, partnerID := range []uuid.UUID{tx.ReferringPartnerID, tx.RedeemingPartnerID} {
			if err := s.cache.Invalidate(ctx, partnerID); err != nil {
				s.logger.Warn("Failed to invalidate balance cache",
					zap.String("partner_id", partnerID.String()),
					zap.Error(err))
			}
		}
	}

	if s.notifier != nil {
		go s.notifier.NotifyRedemption(context.Background(), tx.ID, code.CodeString)
	}
}

// uniqueCodeString draws random code strings until one is free
func (s *CodeService) uniqueCodeString(ctx context.Context) (string, error) {
	for range maxCodeGenerationAttempts {
		candidate, err := referral.GenerateCodeString()
		if err != nil {
			s.logger.Error("Code generation failed", zap.Error(err))
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to generate code")
		}

		taken, err := s.codeRepo.ExistsByCodeString(ctx, candidate)
		if err != nil {
			s.logger.Error("Code uniqueness check failed", zap.Error(err))
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to generate code")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "Could not allocate a unique code")
}

func toCodeResult(code *referral.Code) CodeResult {
	var hint *string
	if code.PurchaseHintValue != nil {
		v := code.PurchaseHintValue.StringFixed(2)
		hint = &v
	}
	return CodeResult{
		ID:                 code.ID,
		CodeString:         code.CodeString,
		OfferID:            code.OfferID,
		IssuedByID:         code.IssuedByID,
		ReferringPartnerID: code.ReferringPartnerID,
		ClientEmail:        code.ClientEmail,
		ExpiresAt:          code.ExpiresAt,
		PurchaseHintValue:  hint,
		Status:             code.Status.String(),
		Metadata:           code.Metadata,
		CreatedAt:          code.CreatedAt,
	}
}

func toTransactionResult(tx *referral.Transaction) TransactionResult {
	return TransactionResult{
		ID:                 tx.ID,
		CodeID:             tx.CodeID,
		ReferringPartnerID: tx.ReferringPartnerID,
		RedeemingPartnerID: tx.RedeemingPartnerID,
		CommissionAmount:   tx.CommissionAmount.StringFixed(2),
		SaleAmount:         tx.SaleAmount.StringFixed(2),
		Currency:           string(tx.CommissionAmount.Currency()),
		Status:             tx.Status.String(),
		Metadata:           tx.Metadata,
		CreatedAt:          tx.CreatedAt,
	}
}
