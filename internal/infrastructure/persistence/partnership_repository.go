package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/partnership"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartnershipRepository implements partnership.Repository using GORM
type GormPartnershipRepository struct {
	db *gorm.DB
}

// NewGormPartnershipRepository creates a new GormPartnershipRepository
func NewGormPartnershipRepository(db *gorm.DB) *GormPartnershipRepository {
	return &GormPartnershipRepository{db: db}
}

// Create persists a new partnership
func (r *GormPartnershipRepository) Create(ctx context.Context, p *partnership.Partnership) error {
	model := models.PartnershipModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing partnership
func (r *GormPartnershipRepository) Update(ctx context.Context, p *partnership.Partnership) error {
	model := models.PartnershipModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a partnership by its ID
func (r *GormPartnershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*partnership.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInviteToken finds a partnership by its invite token
func (r *GormPartnershipRepository) FindByInviteToken(ctx context.Context, token string) (*partnership.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("invite_token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBetween finds a partnership between two partners in either direction
func (r *GormPartnershipRepository) FindBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*partnership.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("(partner_a_id = ? AND partner_b_id = ?) OR (partner_a_id = ? AND partner_b_id = ?)",
			partnerA, partnerB, partnerB, partnerA).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveBetween finds an active partnership between two partners in either direction
func (r *GormPartnershipRepository) FindActiveBetween(ctx context.Context, partnerA, partnerB uuid.UUID) (*partnership.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", partnership.StatusActive).
		Where("(partner_a_id = ? AND partner_b_id = ?) OR (partner_a_id = ? AND partner_b_id = ?)",
			partnerA, partnerB, partnerB, partnerA).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByPartner finds all active partnerships a partner is part of
func (r *GormPartnershipRepository) FindActiveByPartner(ctx context.Context, partnerID uuid.UUID) ([]*partnership.Partnership, error) {
	var partnershipModels []models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", partnership.StatusActive).
		Where("partner_a_id = ? OR partner_b_id = ?", partnerID, partnerID).
		Find(&partnershipModels).Error; err != nil {
		return nil, err
	}
	partnerships := make([]*partnership.Partnership, len(partnershipModels))
	for i := range partnershipModels {
		partnerships[i] = partnershipModels[i].ToDomain()
	}
	return partnerships, nil
}

// Ensure GormPartnershipRepository implements partnership.Repository
var _ partnership.Repository = (*GormPartnershipRepository)(nil)
