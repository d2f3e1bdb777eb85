package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements referral.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new commission transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *referral.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*referral.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumOwedToPartner sums the commissions owed to the partner as referrer.
// Voided transactions are excluded.
func (r *GormTransactionRepository) SumOwedToPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("referring_partner_id = ?", partnerID).
		Where("status <> ?", referral.TransactionStatusVoid)
	return sumCommission(query)
}

// SumOwedByPartner sums the commissions the partner still has to pay as
// redeemer. Only DUE and PARTIALLY_PAID transactions count; settled or
// voided ones do not.
func (r *GormTransactionRepository) SumOwedByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("redeeming_partner_id = ?", partnerID).
		Where("status IN ?", []referral.TransactionStatus{
			referral.TransactionStatusDue,
			referral.TransactionStatusPartiallyPaid,
		})
	return sumCommission(query)
}

func sumCommission(query *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := query.
		Select("COALESCE(SUM(commission_amount), 0) as total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindRecentByPartner returns the partner's most recent transactions on either side
func (r *GormTransactionRepository) FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*referral.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("referring_partner_id = ? OR redeeming_partner_id = ?", partnerID, partnerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]*referral.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToDomain()
	}
	return transactions, nil
}

// Ensure GormTransactionRepository implements referral.TransactionRepository
var _ referral.TransactionRepository = (*GormTransactionRepository)(nil)
