package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"
	"keymarket/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrInventoryNotFound  = errors.New("inventory record not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrUnknownMovement    = errors.New("unknown transaction type")
	ErrInventoryImmutable = errors.New("inventory has transaction history and cannot be deleted")
)

type InventoryService interface {
	Create(ctx context.Context, req dto.CreateInventoryRequest) (*dto.InventoryResponse, error)
	Get(ctx context.Context, id uint) (*dto.InventoryResponse, error)
	List(ctx context.Context, page, limit int) (*dto.InventoryListResponse, error)
	ListLowStock(ctx context.Context) ([]dto.InventoryResponse, error)
	// AdjustStock applies a manual movement: lock row, compute new quantity,
	// reject negatives, update, append the audit transaction, one tx.
	AdjustStock(ctx context.Context, id, userID uint, req dto.AdjustStockRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, id uint) error
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) (*dto.TransactionListResponse, error)

	// ConsumeForSaleTx and RestoreForSaleTx run inside the sale transaction.
	ConsumeForSaleTx(tx *gorm.DB, productID, userID uint, quantity int, saleRef *model.Reference) error
	RestoreForSaleTx(tx *gorm.DB, productID, userID uint, quantity int, saleRef *model.Reference, reason string) error
}

type inventoryService struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
	dispatcher  *worker.Dispatcher
}

func NewInventoryService(
	repo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) InventoryService {
	return &inventoryService{repo: repo, productRepo: productRepo, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventoryService) Create(ctx context.Context, req dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	inv := &model.Inventory{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Location:    orDefault(req.Location, "main"),
		MinQuantity: req.MinQuantity,
	}
	if req.ExpiryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		inv.ExpiryDate = &t
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	inv.Product = product
	return inventoryToResponse(inv), nil
}

func (s *inventoryService) Get(ctx context.Context, id uint) (*dto.InventoryResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInventoryNotFound
	}
	return inventoryToResponse(inv), nil
}

func (s *inventoryService) List(ctx context.Context, page, limit int) (*dto.InventoryListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	rows, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, len(rows))
	for i := range rows {
		items[i] = *inventoryToResponse(&rows[i])
	}
	return &dto.InventoryListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]dto.InventoryResponse, error) {
	rows, err := s.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, len(rows))
	for i := range rows {
		items[i] = *inventoryToResponse(&rows[i])
	}
	return items, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, id, userID uint, req dto.AdjustStockRequest) (*dto.TransactionResponse, error) {
	if !contains(model.TransactionTypes, req.Type) {
		return nil, ErrUnknownMovement
	}

	var recorded *model.InventoryTransaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.lock(ctx, tx, id)
		if err != nil {
			return ErrInventoryNotFound
		}

		delta := model.SignedQuantity(req.Type, req.Quantity)
		newQty := inv.Quantity + delta
		if newQty < 0 {
			return fmt.Errorf("%w: %d on hand, movement removes %d",
				ErrInsufficientStock, inv.Quantity, -delta)
		}

		t := &model.InventoryTransaction{
			InventoryID:      inv.ID,
			UserID:           userID,
			Type:             req.Type,
			Quantity:         req.Quantity,
			Reason:           req.Reason,
			PreviousQuantity: inv.Quantity,
			NewQuantity:      newQty,
		}
		if err := s.applyTx(tx, inv, t, delta); err != nil {
			return err
		}
		recorded = t

		s.maybeAlertLowStock(ctx, inv, newQty)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return transactionToResponse(recorded)
}

// ConsumeForSaleTx removes sold quantity from inventory rows of the product,
// draining locations in id order when one row is not enough. Each drained
// row gets its own audit transaction referencing the sale.
func (s *inventoryService) ConsumeForSaleTx(tx *gorm.DB, productID, userID uint, quantity int, saleRef *model.Reference) error {
	rows, err := s.inventoryRowsForProduct(tx, productID)
	if err != nil {
		return err
	}

	remaining := quantity
	for i := range rows {
		if remaining == 0 {
			break
		}
		inv, err := s.lock(context.Background(), tx, rows[i].ID)
		if err != nil {
			return err
		}
		take := remaining
		if take > inv.Quantity {
			take = inv.Quantity
		}
		if take == 0 {
			continue
		}

		t := &model.InventoryTransaction{
			InventoryID:      inv.ID,
			UserID:           userID,
			Type:             model.TxSale,
			Quantity:         take,
			PreviousQuantity: inv.Quantity,
			NewQuantity:      inv.Quantity - take,
		}
		t.SetReference(saleRef)
		if err := s.applyTx(tx, inv, t, -take); err != nil {
			return err
		}
		s.maybeAlertLowStock(context.Background(), inv, inv.Quantity-take)
		remaining -= take
	}

	if remaining > 0 {
		return fmt.Errorf("%w: product %d short by %d", ErrInsufficientStock, productID, remaining)
	}
	return nil
}

// RestoreForSaleTx puts cancelled-sale quantity back as return movements.
// Stock returns to the first location tracked for the product.
func (s *inventoryService) RestoreForSaleTx(tx *gorm.DB, productID, userID uint, quantity int, saleRef *model.Reference, reason string) error {
	rows, err := s.inventoryRowsForProduct(tx, productID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no inventory record for product %d", productID)
	}

	inv, err := s.lock(context.Background(), tx, rows[0].ID)
	if err != nil {
		return err
	}

	t := &model.InventoryTransaction{
		InventoryID:      inv.ID,
		UserID:           userID,
		Type:             model.TxReturn,
		Quantity:         quantity,
		Reason:           &reason,
		PreviousQuantity: inv.Quantity,
		NewQuantity:      inv.Quantity + quantity,
	}
	t.SetReference(saleRef)
	return s.applyTx(tx, inv, t, quantity)
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrInventoryNotFound
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrInventoryHasTransactions) {
		return ErrInventoryImmutable
	}
	return err
}

func (s *inventoryService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) (*dto.TransactionListResponse, error) {
	rows, total, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	items := make([]dto.TransactionResponse, 0, len(rows))
	for i := range rows {
		item, err := transactionToResponse(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return &dto.TransactionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// applyTx updates the inventory quantity, mirrors the delta onto the
// denormalized products.stock counter, and appends the audit row.
func (s *inventoryService) applyTx(tx *gorm.DB, inv *model.Inventory, t *model.InventoryTransaction, delta int) error {
	if err := s.repo.UpdateQuantityTx(tx, inv.ID, t.NewQuantity); err != nil {
		return err
	}
	if err := s.productRepo.UpdateStockTx(tx, inv.ProductID, delta); err != nil {
		return err
	}
	return s.repo.CreateTransactionTx(tx, t)
}

// lock fetches the row FOR UPDATE when a live tx exists; unit tests run
// with tx == nil and fall back to a plain read.
func (s *inventoryService) lock(ctx context.Context, tx *gorm.DB, id uint) (*model.Inventory, error) {
	if tx == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.LockByIDTx(tx, id)
}

func (s *inventoryService) inventoryRowsForProduct(tx *gorm.DB, productID uint) ([]model.Inventory, error) {
	// The repo method is ctx-based; inside a tx we go through the tx handle.
	if tx == nil {
		return s.repo.FindByProductID(context.Background(), productID)
	}
	var rows []model.Inventory
	err := tx.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
	return rows, err
}

// maybeAlertLowStock dispatches an async alert when the movement left the
// row at or below its minimum. Fire and forget; a queue failure is logged
// and never fails the stock movement.
func (s *inventoryService) maybeAlertLowStock(ctx context.Context, inv *model.Inventory, newQty int) {
	if s.dispatcher == nil || newQty > inv.MinQuantity {
		return
	}
	name := ""
	if inv.Product != nil {
		name = inv.Product.Name
	}
	job := worker.LowStockJob{
		InventoryID: inv.ID,
		ProductID:   inv.ProductID,
		ProductName: name,
		Location:    inv.Location,
		Quantity:    newQty,
		MinQuantity: inv.MinQuantity,
	}
	if err := s.dispatcher.EnqueueLowStock(ctx, job); err != nil {
		log.Error().Err(err).Uint("inventory_id", inv.ID).Msg("failed to enqueue low-stock alert")
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func inventoryToResponse(inv *model.Inventory) *dto.InventoryResponse {
	resp := &dto.InventoryResponse{
		ID:          inv.ID,
		ProductID:   inv.ProductID,
		Quantity:    inv.Quantity,
		Location:    inv.Location,
		MinQuantity: inv.MinQuantity,
		LowStock:    inv.Quantity <= inv.MinQuantity,
	}
	if inv.Product != nil {
		resp.ProductName = inv.Product.Name
	}
	if inv.ExpiryDate != nil {
		d := inv.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}

func transactionToResponse(t *model.InventoryTransaction) (*dto.TransactionResponse, error) {
	ref, err := t.Reference()
	if err != nil {
		return nil, err
	}
	resp := &dto.TransactionResponse{
		ID:               t.ID.String(),
		InventoryID:      t.InventoryID,
		UserID:           t.UserID,
		Type:             t.Type,
		Quantity:         t.Quantity,
		Reason:           t.Reason,
		PreviousQuantity: t.PreviousQuantity,
		NewQuantity:      t.NewQuantity,
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if ref != nil {
		resp.Reference = &dto.ReferenceDTO{Kind: string(ref.Kind), ID: ref.ID}
	}
	return resp, nil
}
