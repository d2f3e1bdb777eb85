package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Number of rows in the dashboard transaction feed
const recentTransactionLimit = 10

// BalanceCache stores computed balance snapshots per partner. A nil result
// with a nil error means a cache miss.
type BalanceCache interface {
	GetBalance(ctx context.Context, partnerID uuid.UUID) (*BalanceResult, error)
	SetBalance(ctx context.Context, partnerID uuid.UUID, result *BalanceResult) error
	Invalidate(ctx context.Context, partnerID uuid.UUID) error
}

// DashboardService aggregates a partner's commission position
type DashboardService struct {
	transactionRepo referral.TransactionRepository
	codeRepo        referral.CodeRepository
	cache           BalanceCache
	logger          *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	transactionRepo referral.TransactionRepository,
	codeRepo referral.CodeRepository,
	cache BalanceCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		codeRepo:        codeRepo,
		cache:           cache,
		logger:          logger,
	}
}

// GetBalance returns what the partner is owed, what they owe, and their
// recent transactions. Results are served from the balance cache when a
// fresh snapshot exists; redemptions invalidate it.
func (s *DashboardService) GetBalance(ctx context.Context, input GetBalanceInput) (*BalanceResult, error) {
	if input.PartnerID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Missing partner context")
	}

	if s.cache != nil {
		cached, err := s.cache.GetBalance(ctx, input.PartnerID)
		if err != nil {
			s.logger.Warn("Balance cache read failed",
				zap.String("partner_id", input.PartnerID.String()),
				zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	result, err := s.computeBalance(ctx, input.PartnerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, input.PartnerID, result); err != nil {
			s.logger.Warn("Balance cache write failed",
				zap.String("partner_id", input.PartnerID.String()),
				zap.Error(err))
		}
	}

	return result, nil
}

// computeBalance runs the three aggregate reads concurrently
func (s *DashboardService) computeBalance(ctx context.Context, partnerID uuid.UUID) (*BalanceResult, error) {
	var (
		owed, owe decimal.Decimal
		recent    []*referral.Transaction
		owedErr   error
		oweErr    error
		recentErr error
		wg        sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		owed, owedErr = s.transactionRepo.SumOwedToPartner(ctx, partnerID)
	}()
	go func() {
		defer wg.Done()
		owe, oweErr = s.transactionRepo.SumOwedByPartner(ctx, partnerID)
	}()
	go func() {
		defer wg.Done()
		recent, recentErr = s.transactionRepo.FindRecentByPartner(ctx, partnerID, recentTransactionLimit)
	}()
	wg.Wait()

	for _, err := range []error{owedErr, oweErr, recentErr} {
		if err != nil {
			s.logger.Error("Balance aggregation failed",
				zap.String("partner_id", partnerID.String()),
				zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute balance")
		}
	}

	codeStrings, err := s.codeStringsFor(ctx, recent)
	if err != nil {
		s.logger.Error("Balance aggregation failed",
			zap.String("partner_id", partnerID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute balance")
	}

	feed := make([]RecentTransactionView, 0, len(recent))
	for _, tx := range recent {
		feed = append(feed, RecentTransactionView{
			ID:               tx.ID,
			Code:             codeStrings[tx.CodeID],
			Role:             tx.RoleFor(partnerID),
			CommissionAmount: tx.CommissionAmount.StringFixed(2),
			SaleAmount:       tx.SaleAmount.StringFixed(2),
			Status:           tx.Status.String(),
			CreatedAt:        tx.CreatedAt,
		})
	}

	return &BalanceResult{
		PartnerID:          partnerID,
		YouAreOwed:         owed.Round(2).StringFixed(2),
		YouOwe:             owe.Round(2).StringFixed(2),
		NetBalance:         owed.Sub(owe).Round(2).StringFixed(2),
		Currency:           string(valueobject.DefaultCurrency),
		RecentTransactions: feed,
		ComputedAt:         time.Now(),
	}, nil
}

// codeStringsFor resolves the code string each feed row was redeemed under
func (s *DashboardService) codeStringsFor(ctx context.Context, recent []*referral.Transaction) (map[uuid.UUID]string, error) {
	if len(recent) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(recent))
	ids := make([]uuid.UUID, 0, len(recent))
	for _, tx := range recent {
		if _, ok := seen[tx.CodeID]; ok {
			continue
		}
		seen[tx.CodeID] = struct{}{}
		ids = append(ids, tx.CodeID)
	}

	codes, err := s.codeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	strings := make(map[uuid.UUID]string, len(codes))
	for _, code := range codes {
		strings[code.ID] = code.CodeString
	}
	return strings, nil
}

