package service

import (
	"context"
	"testing"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventorySvc() (InventoryService, *stubInventoryRepo, *stubProductRepo) {
	productRepo := newStubProductRepo()
	invRepo := newStubInventoryRepo()
	svc := NewInventoryService(invRepo, productRepo, nil)
	return svc, invRepo, productRepo
}

func TestAdjustStock_PurchaseAddsQuantity(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Rice", "1000000000001", 4.50)
	inv := invRepo.seed(p.ID, 10, 5, "A1")

	resp, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     model.TxPurchase,
		Quantity: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, resp.PreviousQuantity)
	assert.Equal(t, 25, resp.NewQuantity)
	assert.Equal(t, 25, invRepo.rows[inv.ID].Quantity)
	// denormalized product counter moves with the row
	assert.Equal(t, 15, productRepo.products[p.ID].Stock)
}

func TestAdjustStock_SaleRemovesQuantity(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Milk", "1000000000002", 1.80)
	inv := invRepo.seed(p.ID, 20, 5, "A2")

	resp, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     model.TxSale,
		Quantity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.NewQuantity)
	assert.Equal(t, 12, invRepo.rows[inv.ID].Quantity)
}

func TestAdjustStock_NegativeResultRejected(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Bread", "1000000000003", 0.90)
	inv := invRepo.seed(p.ID, 3, 5, "B1")

	_, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     model.TxSale,
		Quantity: 5,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// nothing changed, no audit row written
	assert.Equal(t, 3, invRepo.rows[inv.ID].Quantity)
	assert.Empty(t, invRepo.txLog)
}

func TestAdjustStock_SignedAdjustment(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Eggs", "1000000000004", 3.20)
	inv := invRepo.seed(p.ID, 10, 5, "B2")

	// shrinkage: signed negative delta
	resp, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     model.TxAdjustment,
		Quantity: -4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.NewQuantity)
}

func TestAdjustStock_UnknownTypeRejected(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Chicken", "1000000000005", 7.90)
	inv := invRepo.seed(p.ID, 10, 5, "C1")

	_, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     "theft",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrUnknownMovement)
}

func TestAdjustStock_AuditRowInvariant(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Rice", "1000000000006", 4.50)
	inv := invRepo.seed(p.ID, 50, 10, "A1")

	moves := []dto.AdjustStockRequest{
		{Type: model.TxPurchase, Quantity: 20},
		{Type: model.TxSale, Quantity: 35},
		{Type: model.TxAdjustment, Quantity: -5},
		{Type: model.TxReturn, Quantity: 2},
	}
	for _, m := range moves {
		_, err := svc.AdjustStock(context.Background(), inv.ID, 1, m)
		require.NoError(t, err)
	}

	require.Len(t, invRepo.txLog, len(moves))
	for _, tx := range invRepo.txLog {
		assert.Equal(t, tx.PreviousQuantity+model.SignedQuantity(tx.Type, tx.Quantity), tx.NewQuantity)
	}
	// chain: each row starts where the previous ended
	for i := 1; i < len(invRepo.txLog); i++ {
		assert.Equal(t, invRepo.txLog[i-1].NewQuantity, invRepo.txLog[i].PreviousQuantity)
	}
	assert.Equal(t, 32, invRepo.rows[inv.ID].Quantity) // 50+20-35-5+2
}

func TestConsumeForSale_DrainsLocationsInOrder(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Milk", "1000000000007", 1.80)
	first := invRepo.seed(p.ID, 5, 0, "A1")
	second := invRepo.seed(p.ID, 10, 0, "A2")

	ref := model.SaleRef(newTestSaleID())
	err := svc.ConsumeForSaleTx(nil, p.ID, 1, 8, ref)
	require.NoError(t, err)

	assert.Equal(t, 0, invRepo.rows[first.ID].Quantity)
	assert.Equal(t, 7, invRepo.rows[second.ID].Quantity)

	// one audit row per drained location, both referencing the sale
	require.Len(t, invRepo.txLog, 2)
	for _, tx := range invRepo.txLog {
		assert.Equal(t, model.TxSale, tx.Type)
		got, err := tx.Reference()
		require.NoError(t, err)
		assert.Equal(t, model.RefSale, got.Kind)
	}
}

func TestConsumeForSale_ShortageFails(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Bread", "1000000000008", 0.90)
	invRepo.seed(p.ID, 3, 0, "B1")

	err := svc.ConsumeForSaleTx(nil, p.ID, 1, 10, model.SaleRef(newTestSaleID()))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRestoreForSale_AddsReturnMovement(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Eggs", "1000000000009", 3.20)
	inv := invRepo.seed(p.ID, 2, 0, "B2")

	err := svc.RestoreForSaleTx(nil, p.ID, 1, 6, model.SaleRef(newTestSaleID()), "cancelled sale R-000001")
	require.NoError(t, err)

	assert.Equal(t, 8, invRepo.rows[inv.ID].Quantity)
	require.Len(t, invRepo.txLog, 1)
	assert.Equal(t, model.TxReturn, invRepo.txLog[0].Type)
	require.NotNil(t, invRepo.txLog[0].Reason)
	assert.Contains(t, *invRepo.txLog[0].Reason, "R-000001")
}

func TestDeleteInventory_BlockedByHistory(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Chicken", "1000000000010", 7.90)
	inv := invRepo.seed(p.ID, 10, 5, "C1")

	_, err := svc.AdjustStock(context.Background(), inv.ID, 1, dto.AdjustStockRequest{
		Type:     model.TxPurchase,
		Quantity: 1,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), inv.ID)
	assert.ErrorIs(t, err, ErrInventoryImmutable)

	// a row without history deletes fine
	fresh := invRepo.seed(p.ID, 0, 0, "C2")
	assert.NoError(t, svc.Delete(context.Background(), fresh.ID))
}

func TestListTransactions_FiltersByType(t *testing.T) {
	svc, invRepo, productRepo := buildInventorySvc()
	p := productRepo.seed("Rice", "1000000000011", 4.50)
	inv := invRepo.seed(p.ID, 100, 10, "A1")

	for _, m := range []dto.AdjustStockRequest{
		{Type: model.TxPurchase, Quantity: 5},
		{Type: model.TxSale, Quantity: 3},
		{Type: model.TxPurchase, Quantity: 2},
	} {
		_, err := svc.AdjustStock(context.Background(), inv.ID, 1, m)
		require.NoError(t, err)
	}

	resp, err := svc.ListTransactions(context.Background(), repository.TransactionFilter{Type: model.TxPurchase})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
}
