package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"edugrant/internal/errors"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// SettingService exposes admin-editable platform settings.
type SettingService interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Set(ctx context.Context, key, value string) (*model.Setting, error)
	List(ctx context.Context) ([]model.Setting, error)
}

type settingService struct {
	repo repository.SettingRepository
}

// NewSettingService creates a new setting service.
func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

// Get returns one setting by key.
func (s *settingService) Get(ctx context.Context, key string) (*model.Setting, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("setting not found")
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

// Set creates or replaces a setting value.
func (s *settingService) Set(ctx context.Context, key, value string) (*model.Setting, error) {
	if key == "" {
		return nil, errors.Validation("key is required")
	}
	setting := &model.Setting{Key: key, Value: value}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return setting, nil
}

// List returns all settings.
func (s *settingService) List(ctx context.Context) ([]model.Setting, error) {
	return s.repo.List(ctx)
}
