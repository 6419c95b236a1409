package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"edugrant/internal/errors"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// ContributionService records and lists donor contributions.
type ContributionService interface {
	Create(ctx context.Context, donorID, scholarshipID uuid.UUID, amount decimal.Decimal, currency, message string) (*model.Contribution, error)
	ListMine(ctx context.Context, donorID uuid.UUID, page, limit int) ([]model.Contribution, int64, error)
	List(ctx context.Context, page, limit int) ([]model.Contribution, int64, error)
}

type contributionService struct {
	repo            repository.ContributionRepository
	scholarshipRepo repository.ScholarshipRepository
}

// NewContributionService creates a new contribution service.
func NewContributionService(repo repository.ContributionRepository, scholarshipRepo repository.ScholarshipRepository) ContributionService {
	return &contributionService{
		repo:            repo,
		scholarshipRepo: scholarshipRepo,
	}
}

// Create records a donor funding a scholarship.
func (s *contributionService) Create(ctx context.Context, donorID, scholarshipID uuid.UUID, amount decimal.Decimal, currency, message string) (*model.Contribution, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Validation("amount must be positive")
	}

	if _, err := s.scholarshipRepo.FindByID(ctx, scholarshipID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("find scholarship: %w", err)
	}

	if currency == "" {
		currency = "USD"
	}
	contribution := &model.Contribution{
		DonorID:       donorID,
		ScholarshipID: scholarshipID,
		Amount:        amount,
		Currency:      currency,
		Message:       message,
	}
	if err := s.repo.Create(ctx, contribution); err != nil {
		return nil, fmt.Errorf("create contribution: %w", err)
	}
	return contribution, nil
}

// ListMine returns a page of the caller's contributions.
func (s *contributionService) ListMine(ctx context.Context, donorID uuid.UUID, page, limit int) ([]model.Contribution, int64, error) {
	return s.repo.ListByDonor(ctx, donorID, page, limit)
}

// List returns a page of all contributions.
func (s *contributionService) List(ctx context.Context, page, limit int) ([]model.Contribution, int64, error) {
	return s.repo.List(ctx, page, limit)
}
