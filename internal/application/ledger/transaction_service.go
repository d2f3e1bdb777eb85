package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/identity"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionService exposes commission transaction lookups to the partners
// involved in them
type TransactionService struct {
	transactionRepo referral.TransactionRepository
	codeRepo        referral.CodeRepository
	userRepo        identity.UserRepository
	logger          *zap.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo referral.TransactionRepository,
	codeRepo referral.CodeRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		codeRepo:        codeRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// Get returns a transaction by ID. Only the two partners on the transaction
// may see it.
func (s *TransactionService) Get(ctx context.Context, input GetTransactionInput) (*TransactionDetail, error) {
	tx, err := s.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}

	if !tx.Involves(input.CallerID) {
		s.logger.Warn("Transaction access denied",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("caller_id", input.CallerID.String()))
		return nil, shared.NewDomainError("FORBIDDEN", "You are not a party to this transaction")
	}

	detail := &TransactionDetail{
		ID:               tx.ID,
		CommissionAmount: tx.CommissionAmount.StringFixed(2),
		SaleAmount:       tx.SaleAmount.StringFixed(2),
		Currency:         string(tx.CommissionAmount.Currency()),
		Status:           tx.Status.String(),
		Role:             tx.RoleFor(input.CallerID),
		Metadata:         tx.Metadata,
		CreatedAt:        tx.CreatedAt,
	}

	if code, err := s.codeRepo.FindByID(ctx, tx.CodeID); err != nil {
		s.logger.Warn("Code missing for transaction",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("code_id", tx.CodeID.String()),
			zap.Error(err))
	} else {
		detail.Code = code.CodeString
	}

	partners, err := s.userRepo.FindByIDs(ctx, []uuid.UUID{tx.ReferringPartnerID, tx.RedeemingPartnerID})
	if err != nil {
		s.logger.Warn("Failed to load transaction partners",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err))
		return detail, nil
	}
	for _, p := range partners {
		summary := &PartnerSummary{ID: p.ID, CompanyName: p.CompanyName, Email: p.Email}
		if p.ID == tx.ReferringPartnerID {
			detail.ReferringPartner = summary
		}
		if p.ID == tx.RedeemingPartnerID {
			detail.RedeemingPartner = summary
		}
	}

	return detail, nil
}
