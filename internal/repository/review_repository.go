package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edugrant/internal/model"
)

// ReviewRepository defines the append-only review ledger. Reviews are
// created, never updated or deleted.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create appends a new review row.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListByApplication returns the full evaluation history of an
// application, oldest first.
func (r *reviewRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
