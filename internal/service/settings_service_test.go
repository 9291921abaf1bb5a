package service

import (
	"context"
	"testing"

	"keymarket/internal/dto"
	"keymarket/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{row: &model.Settings{
		ID:             model.SettingsRowID,
		StoreName:      "Key Market",
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		TaxRate:        decimal.NewFromFloat(15),
		Language:       "en",
	}}
}

func TestSettingsUpdate_PatchSemantics(t *testing.T) {
	repo := seededSettingsRepo()
	svc := NewSettingsService(repo)

	rate := decimal.NewFromFloat(7.5)
	resp, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{
		StoreName: "Corner Shop",
		TaxRate:   &rate,
	})
	require.NoError(t, err)

	assert.Equal(t, "Corner Shop", resp.StoreName)
	assert.True(t, resp.TaxRate.Equal(rate))
	// untouched fields keep their values
	assert.Equal(t, "USD", resp.CurrencyCode)
	assert.Equal(t, "$", resp.CurrencySymbol)
	assert.Equal(t, "en", resp.Language)
}

func TestSettingsUpdate_RowIDPinned(t *testing.T) {
	repo := seededSettingsRepo()
	repo.row.ID = 42 // even a corrupted in-memory id gets pinned on write
	svc := NewSettingsService(repo)

	_, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{StoreName: "X"})
	require.NoError(t, err)
	assert.Equal(t, uint(model.SettingsRowID), repo.row.ID)
}

func TestSettingsGet(t *testing.T) {
	svc := NewSettingsService(seededSettingsRepo())
	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Key Market", resp.StoreName)
}
