package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"edugrant/internal/cache"
	"edugrant/internal/errors"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

const (
	scholarshipCacheTTL = 5 * time.Minute
	statsCacheTTL       = 1 * time.Minute
)

// ScholarshipInput carries the writable fields of a scheme.
type ScholarshipInput struct {
	Title               string
	Description         string
	Amount              decimal.Decimal
	Currency            string
	EligibilityCriteria datatypes.JSON
	RequiredDocuments   datatypes.JSON
	ApplicationDeadline time.Time
	SelectionDeadline   *time.Time
	MaxApplications     *int
	Status              model.ScholarshipStatus
	Tags                datatypes.JSON
}

// ScholarshipStats is the applications-by-status aggregate for one scheme.
type ScholarshipStats struct {
	ScholarshipID uuid.UUID                `json:"scholarship_id"`
	Total         int64                    `json:"total"`
	ByStatus      []repository.StatusCount `json:"by_status"`
}

// ScholarshipService handles scholarship catalog operations.
type ScholarshipService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input ScholarshipInput) (*model.Scholarship, error)
	Update(ctx context.Context, id uuid.UUID, input ScholarshipInput) (*model.Scholarship, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Scholarship, error)
	List(ctx context.Context, filter repository.ScholarshipFilter) ([]model.Scholarship, int64, error)
	Stats(ctx context.Context, id uuid.UUID) (*ScholarshipStats, error)
}

type scholarshipService struct {
	repo    repository.ScholarshipRepository
	appRepo repository.ApplicationRepository
	cache   *cache.Client
}

// NewScholarshipService creates a new scholarship service.
func NewScholarshipService(repo repository.ScholarshipRepository, appRepo repository.ApplicationRepository, cache *cache.Client) ScholarshipService {
	return &scholarshipService{
		repo:    repo,
		appRepo: appRepo,
		cache:   cache,
	}
}

func (s *scholarshipService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("scholarship:%s", id.String())
}

func (s *scholarshipService) statsCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("scholarship:%s:stats", id.String())
}

// Create creates a scheme. The application deadline must lie in the
// future at creation time.
func (s *scholarshipService) Create(ctx context.Context, creatorID uuid.UUID, input ScholarshipInput) (*model.Scholarship, error) {
	if err := validateScholarshipInput(input, true); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ScholarshipStatusActive
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	scholarship := &model.Scholarship{
		ID:                  uuid.New(),
		Title:               input.Title,
		Description:         input.Description,
		Amount:              input.Amount,
		Currency:            currency,
		EligibilityCriteria: input.EligibilityCriteria,
		RequiredDocuments:   input.RequiredDocuments,
		ApplicationDeadline: input.ApplicationDeadline,
		SelectionDeadline:   input.SelectionDeadline,
		MaxApplications:     input.MaxApplications,
		Status:              status,
		CreatedByID:         creatorID,
		Tags:                input.Tags,
	}

	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, fmt.Errorf("create scholarship: %w", err)
	}
	return scholarship, nil
}

// Update updates a scheme in place and invalidates its cache entries.
func (s *scholarshipService) Update(ctx context.Context, id uuid.UUID, input ScholarshipInput) (*model.Scholarship, error) {
	scholarship, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateScholarshipInput(input, false); err != nil {
		return nil, err
	}
	if input.MaxApplications != nil && *input.MaxApplications < scholarship.CurrentApplications {
		return nil, errors.Validation("max applications cannot be lower than current applications")
	}

	scholarship.Title = input.Title
	scholarship.Description = input.Description
	scholarship.Amount = input.Amount
	if input.Currency != "" {
		scholarship.Currency = input.Currency
	}
	scholarship.EligibilityCriteria = input.EligibilityCriteria
	scholarship.RequiredDocuments = input.RequiredDocuments
	scholarship.ApplicationDeadline = input.ApplicationDeadline
	scholarship.SelectionDeadline = input.SelectionDeadline
	scholarship.MaxApplications = input.MaxApplications
	if input.Status != "" {
		scholarship.Status = input.Status
	}
	scholarship.Tags = input.Tags

	if err := s.repo.Update(ctx, scholarship); err != nil {
		return nil, fmt.Errorf("update scholarship: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	_ = s.cache.Delete(ctx, s.statsCacheKey(id))
	return scholarship, nil
}

// Delete removes a scheme. Deletion is refused while any application
// references it, so applications are never silently orphaned.
func (s *scholarshipService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	count, err := s.appRepo.CountForScholarship(ctx, id)
	if err != nil {
		return fmt.Errorf("count applications: %w", err)
	}
	if count > 0 {
		return errors.ErrScholarshipHasApplications
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	_ = s.cache.Delete(ctx, s.statsCacheKey(id))
	return nil
}

// Get retrieves a scheme by ID with caching.
func (s *scholarshipService) Get(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Scholarship
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	scholarship, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(scholarship); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, scholarshipCacheTTL)
	}
	return scholarship, nil
}

// List returns a page of schemes plus the total count.
func (s *scholarshipService) List(ctx context.Context, filter repository.ScholarshipFilter) ([]model.Scholarship, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.Validation("invalid scholarship status")
	}
	return s.repo.List(ctx, filter)
}

// Stats returns application counts by status for one scheme, cached
// briefly because admins poll it.
func (s *scholarshipService) Stats(ctx context.Context, id uuid.UUID) (*ScholarshipStats, error) {
	if data, _ := s.cache.Get(ctx, s.statsCacheKey(id)); data != nil {
		var cached ScholarshipStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	counts, err := s.appRepo.CountByStatus(ctx, &id)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	stats := &ScholarshipStats{ScholarshipID: id, ByStatus: counts}
	for _, c := range counts {
		stats.Total += c.Count
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, s.statsCacheKey(id), payload, statsCacheTTL)
	}
	return stats, nil
}

func (s *scholarshipService) find(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("find scholarship: %w", err)
	}
	return scholarship, nil
}

func validateScholarshipInput(input ScholarshipInput, creating bool) error {
	if input.Title == "" {
		return errors.Validation("title is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.Validation("amount must be positive")
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.Validation("invalid scholarship status")
	}
	if creating && !input.ApplicationDeadline.After(time.Now()) {
		return errors.Validation("application deadline must be in the future")
	}
	if input.MaxApplications != nil && *input.MaxApplications <= 0 {
		return errors.Validation("max applications must be positive")
	}
	return nil
}
