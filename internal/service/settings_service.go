package service

import (
	"context"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

// Update patches the singleton row. Empty or nil fields keep their current
// values; the row id is always pinned by the repository.
func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.StoreName != "" {
		settings.StoreName = req.StoreName
	}
	if req.CurrencyCode != "" {
		settings.CurrencyCode = req.CurrencyCode
	}
	if req.CurrencySymbol != "" {
		settings.CurrencySymbol = req.CurrencySymbol
	}
	if req.TaxRate != nil {
		settings.TaxRate = *req.TaxRate
	}
	if req.Address != nil {
		settings.Address = req.Address
	}
	if req.Phone != nil {
		settings.Phone = req.Phone
	}
	if req.Email != nil {
		settings.Email = req.Email
	}
	if req.Language != "" {
		settings.Language = req.Language
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

func settingsToResponse(m *model.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		StoreName:      m.StoreName,
		CurrencyCode:   m.CurrencyCode,
		CurrencySymbol: m.CurrencySymbol,
		TaxRate:        m.TaxRate,
		Address:        m.Address,
		Phone:          m.Phone,
		Email:          m.Email,
		Language:       m.Language,
	}
}
