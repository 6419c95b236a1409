package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edugrant/internal/model"
)

// ScholarshipFilter narrows scholarship listings.
type ScholarshipFilter struct {
	Status model.ScholarshipStatus
	Search string
	Page   int
	Limit  int
}

// ScholarshipRepository defines scholarship persistence operations.
type ScholarshipRepository interface {
	Create(ctx context.Context, scholarship *model.Scholarship) error
	Update(ctx context.Context, scholarship *model.Scholarship) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Scholarship, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Scholarship, error)
	List(ctx context.Context, filter ScholarshipFilter) ([]model.Scholarship, int64, error)
}

type scholarshipRepository struct {
	db *gorm.DB
}

// NewScholarshipRepository creates a new scholarship repository.
func NewScholarshipRepository(db *gorm.DB) ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

// Create creates a new scholarship.
func (r *scholarshipRepository) Create(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Create(scholarship).Error
}

// Update updates an existing scholarship.
func (r *scholarshipRepository) Update(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Save(scholarship).Error
}

// Delete soft-deletes a scholarship.
func (r *scholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Scholarship{}).Error
}

// FindByID finds a scholarship by ID.
func (r *scholarshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// FindByIDForUpdate finds a scholarship by ID with a row-level lock,
// used by the application admission transaction.
func (r *scholarshipRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// List returns a page of scholarships plus the total count matching
// the filter. Default order is most recent first.
func (r *scholarshipRepository) List(ctx context.Context, filter ScholarshipFilter) ([]model.Scholarship, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Scholarship{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scholarships []model.Scholarship
	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&scholarships).Error
	if err != nil {
		return nil, 0, err
	}
	return scholarships, total, nil
}
