package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/referral"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCodeRepository implements referral.CodeRepository using GORM
type GormCodeRepository struct {
	db *gorm.DB
}

// NewGormCodeRepository creates a new GormCodeRepository
func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

// Create persists a new code
func (r *GormCodeRepository) Create(ctx context.Context, code *referral.Code) error {
	model := models.CodeModelFromDomain(code)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing code
func (r *GormCodeRepository) Update(ctx context.Context, code *referral.Code) error {
	model := models.CodeModelFromDomain(code)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a code by its ID
func (r *GormCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*referral.Code, error) {
	var model models.CodeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the codes for the given IDs
func (r *GormCodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*referral.Code, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var codeModels []models.CodeModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&codeModels).Error; err != nil {
		return nil, err
	}
	codes := make([]*referral.Code, len(codeModels))
	for i := range codeModels {
		codes[i] = codeModels[i].ToDomain()
	}
	return codes, nil
}

// FindByCodeString finds a code by its code string. Inside a transaction
// scope the row is locked for update so concurrent redemptions serialize.
func (r *GormCodeRepository) FindByCodeString(ctx context.Context, codeString string) (*referral.Code, error) {
	var model models.CodeModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code_string = ?", codeString).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCodeString checks whether a code with the given string exists
func (r *GormCodeRepository) ExistsByCodeString(ctx context.Context, codeString string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CodeModel{}).
		Where("code_string = ?", codeString).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormCodeRepository implements referral.CodeRepository
var _ referral.CodeRepository = (*GormCodeRepository)(nil)
