package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/offer"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOfferRepository implements offer.Repository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// Create persists a new offer
func (r *GormOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	model := models.OfferModelFromDomain(o)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing offer
func (r *GormOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	model := models.OfferModelFromDomain(o)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an offer by its ID
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	var model models.OfferModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns offers matching the filter with the total count. Sort fields
// are validated against a whitelist; unknown fields fall back to created_at.
func (r *GormOfferRepository) List(ctx context.Context, filter offer.ListFilter) ([]*offer.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OfferModel{}).
		Where("target_partner_id = ?", filter.TargetPartnerID)

	if len(filter.OwnerIDs) > 0 {
		query = query.Where("owner_id IN ?", filter.OwnerIDs)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = offer.DefaultListLimit
	}

	sortField := ValidateSortField(filter.OrderBy, OfferSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var offerModels []models.OfferModel
	if err := query.
		Order(sortField + " " + sortOrder).
		Limit(limit).
		Offset(filter.Offset).
		Find(&offerModels).Error; err != nil {
		return nil, 0, err
	}

	offers := make([]*offer.Offer, len(offerModels))
	for i := range offerModels {
		offers[i] = offerModels[i].ToDomain()
	}
	return offers, total, nil
}

// Ensure GormOfferRepository implements offer.Repository
var _ offer.Repository = (*GormOfferRepository)(nil)
