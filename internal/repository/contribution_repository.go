package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edugrant/internal/model"
)

// ContributionRepository defines contribution persistence operations.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *model.Contribution) error
	ListByDonor(ctx context.Context, donorID uuid.UUID, page, limit int) ([]model.Contribution, int64, error)
	List(ctx context.Context, page, limit int) ([]model.Contribution, int64, error)
}

type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository.
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

// Create creates a new contribution.
func (r *contributionRepository) Create(ctx context.Context, contribution *model.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

// ListByDonor returns a page of one donor's contributions, newest first.
func (r *contributionRepository) ListByDonor(ctx context.Context, donorID uuid.UUID, page, limit int) ([]model.Contribution, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Contribution{}).
		Where("donor_id = ?", donorID)
	return r.page(query, page, limit)
}

// List returns a page of all contributions, newest first.
func (r *contributionRepository) List(ctx context.Context, page, limit int) ([]model.Contribution, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Contribution{})
	return r.page(query, page, limit)
}

func (r *contributionRepository) page(query *gorm.DB, page, limit int) ([]model.Contribution, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contributions []model.Contribution
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contributions).Error
	if err != nil {
		return nil, 0, err
	}
	return contributions, total, nil
}
