package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edugrant/internal/errors"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// AnnouncementService handles platform announcements.
type AnnouncementService interface {
	Create(ctx context.Context, creatorID uuid.UUID, title, body string) (*model.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, title, body string, active bool) (*model.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, page, limit int) ([]model.Announcement, int64, error)
}

type announcementService struct {
	repo repository.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(repo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{repo: repo}
}

// Create publishes a new announcement.
func (s *announcementService) Create(ctx context.Context, creatorID uuid.UUID, title, body string) (*model.Announcement, error) {
	if title == "" {
		return nil, errors.Validation("title is required")
	}
	announcement := &model.Announcement{
		Title:       title,
		Body:        body,
		Active:      true,
		CreatedByID: creatorID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return announcement, nil
}

// Update edits an announcement in place.
func (s *announcementService) Update(ctx context.Context, id uuid.UUID, title, body string, active bool) (*model.Announcement, error) {
	announcement, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, errors.Validation("title is required")
	}

	announcement.Title = title
	announcement.Body = body
	announcement.Active = active

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	return announcement, nil
}

// Delete removes an announcement.
func (s *announcementService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

// ListActive returns a page of active announcements.
func (s *announcementService) ListActive(ctx context.Context, page, limit int) ([]model.Announcement, int64, error) {
	return s.repo.ListActive(ctx, page, limit)
}

func (s *announcementService) find(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("announcement not found")
		}
		return nil, fmt.Errorf("find announcement: %w", err)
	}
	return announcement, nil
}
