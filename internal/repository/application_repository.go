package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edugrant/internal/model"
)

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	Status        model.ApplicationStatus
	StudentID     *uuid.UUID
	ScholarshipID *uuid.UUID
	ReviewerID    *uuid.UUID
	Page          int
	Limit         int
}

// StatusCount is one row of an applications-by-status aggregate.
type StatusCount struct {
	Status model.ApplicationStatus `json:"status"`
	Count  int64                   `json:"count"`
}

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	Update(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error)
	Recent(ctx context.Context, limit int) ([]model.Application, error)
	CountByStatus(ctx context.Context, scholarshipID *uuid.UUID) ([]StatusCount, error)
	CountForScholarship(ctx context.Context, scholarshipID uuid.UUID) (int64, error)
	ExistsForStudent(ctx context.Context, studentID, scholarshipID uuid.UUID) (bool, error)
	// WithTransaction runs fn inside one database transaction, giving
	// it transactional application and scholarship repositories.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, apps ApplicationRepository, scholarships ScholarshipRepository) error) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application.
func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// Update updates an existing application.
func (r *applicationRepository) Update(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

// FindByID finds an application by ID with its documents.
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// List returns a page of applications plus the total count matching
// the filter, newest first.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Application{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.ScholarshipID != nil {
		query = query.Where("scholarship_id = ?", *filter.ScholarshipID)
	}
	if filter.ReviewerID != nil {
		query = query.Where("assigned_reviewer_id = ?", *filter.ReviewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []model.Application
	err := query.Order("submitted_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// Recent returns the latest applications across all scholarships.
func (r *applicationRepository) Recent(ctx context.Context, limit int) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// CountByStatus aggregates application counts per status, optionally
// scoped to one scholarship.
func (r *applicationRepository) CountByStatus(ctx context.Context, scholarshipID *uuid.UUID) ([]StatusCount, error) {
	query := r.db.WithContext(ctx).Model(&model.Application{})
	if scholarshipID != nil {
		query = query.Where("scholarship_id = ?", *scholarshipID)
	}

	var counts []StatusCount
	err := query.Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountForScholarship counts all applications referencing a scholarship.
func (r *applicationRepository) CountForScholarship(ctx context.Context, scholarshipID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("scholarship_id = ?", scholarshipID).
		Count(&count).Error
	return count, err
}

// ExistsForStudent reports whether the student already applied to the
// scholarship.
func (r *applicationRepository) ExistsForStudent(ctx context.Context, studentID, scholarshipID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("student_id = ? AND scholarship_id = ?", studentID, scholarshipID).
		Count(&count).Error
	return count > 0, err
}

// WithTransaction executes fn within a database transaction.
func (r *applicationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, apps ApplicationRepository, scholarships ScholarshipRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &applicationRepository{db: tx}, &scholarshipRepository{db: tx})
	})
}
