package service

import (
	"context"
	"testing"

	"keymarket/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate_GeneratesBarcode(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Olive Oil 1L",
		Price: decimal.NewFromFloat(8.99),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsGeneratedBarcode)
	assert.Len(t, resp.Barcode, 13)
	assert.Equal(t, "20", resp.Barcode[:2])
	assert.Equal(t, "general", resp.Category)
	assert.True(t, resp.IsOnline)
}

func TestProductCreate_DuplicateBarcode(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("Rice 1kg", "6210000000017", 4.50)
	svc := NewProductService(repo)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:    "Knockoff Rice",
		Price:   decimal.NewFromFloat(3.00),
		Barcode: "6210000000017",
	})
	assert.ErrorIs(t, err, ErrBarcodeTaken)
}

func TestProductGetByBarcode(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.seed("Rice 1kg", "6210000000017", 4.50)
	svc := NewProductService(repo)

	resp, err := svc.GetByBarcode(context.Background(), "6210000000017")
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.ID)

	_, err = svc.GetByBarcode(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductUpdate_RejectsNegativePrice(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.seed("Rice 1kg", "6210000000017", 4.50)
	svc := NewProductService(repo)

	bad := decimal.NewFromFloat(-1)
	_, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &bad})
	assert.Error(t, err)

	good := decimal.NewFromFloat(5.25)
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &good})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(good))
}

func TestCheckDigit(t *testing.T) {
	// 629104150021 -> 3 is the worked EAN-13 example
	assert.Equal(t, "3", checkDigit("629104150021"))
	assert.Equal(t, "0", checkDigit("000000000000"))
}

func TestGenerateBarcode_ValidEAN13(t *testing.T) {
	for i := 0; i < 20; i++ {
		code := generateBarcode()
		require.Len(t, code, 13)
		assert.Equal(t, checkDigit(code[:12]), code[12:])
	}
}
