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

// NotificationService exposes a user's in-app notifications.
type NotificationService interface {
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// ListMine returns a page of the caller's notifications.
func (s *notificationService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// MarkRead flags one of the caller's notifications as read.
func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NotFound("notification not found")
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
