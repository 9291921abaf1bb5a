package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrSaleAlreadyVoid   = errors.New("sale is already cancelled")
	ErrInactiveProduct   = errors.New("product is not available for sale")
	ErrNegativeLineTotal = errors.New("line discount exceeds line price")
	ErrDiscountOverTotal = errors.New("sale discount exceeds subtotal")
)

type SaleService interface {
	Create(ctx context.Context, userID uint, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// Cancel voids a completed sale: status flips, payment is refunded, and
	// every consumed quantity is restored through return transactions.
	Cancel(ctx context.Context, id uuid.UUID, userID uint, reason string) error
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	inventory    InventoryService
	settingsRepo repository.SettingsRepository
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
	settingsRepo repository.SettingsRepository,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		inventory:    inventory,
		settingsRepo: settingsRepo,
	}
}

// Create registers a sale in one ACID transaction:
//  1. resolve products and compute line subtotals (pre-flight)
//  2. subtotal = Σ line subtotals; tax = subtotal × tax rate from settings;
//     total = subtotal − discount + tax
//  3. BEGIN: draw receipt number, insert sale + items, consume stock per
//     item with audit transactions referencing the sale
//  4. COMMIT — any stock shortage rolls the whole sale back
func (s *saleService) Create(ctx context.Context, userID uint, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	type resolvedItem struct {
		product  *model.Product
		quantity int
		discount decimal.Decimal
		subtotal decimal.Decimal
		notes    *string
	}

	resolved := make([]resolvedItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		p, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrProductNotFound)
		}
		if !p.IsOnline {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrInactiveProduct)
		}
		line := model.LineSubtotal(item.Quantity, p.Price, item.Discount)
		if line.IsNegative() {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrNegativeLineTotal)
		}
		subtotal = subtotal.Add(line)
		resolved = append(resolved, resolvedItem{
			product:  p,
			quantity: item.Quantity,
			discount: item.Discount,
			subtotal: line,
			notes:    item.Notes,
		})
	}

	if req.Discount.GreaterThan(subtotal) {
		return nil, ErrDiscountOverTotal
	}

	taxRate, err := s.taxRate(ctx)
	if err != nil {
		return nil, err
	}
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Sub(req.Discount).Add(tax)

	uid := userID
	sale := model.Sale{
		UserID:        &uid,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      req.Discount,
		TotalAmount:   total,
		Status:        model.SaleCompleted,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentPaid,
		Notes:         req.Notes,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: r.product.ID,
			Quantity:  r.quantity,
			UnitPrice: r.product.Price,
			Discount:  r.discount,
			Subtotal:  r.subtotal,
			Notes:     r.notes,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		receipt, err := s.nextReceipt(tx)
		if err != nil {
			return err
		}
		sale.ReceiptNumber = receipt

		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		saleRef := model.SaleRef(sale.ID)
		for _, r := range resolved {
			if err := s.inventory.ConsumeForSaleTx(tx, r.product.ID, userID, r.quantity, saleRef); err != nil {
				return fmt.Errorf("consume stock for %s: %w", r.product.Name, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.product.Name
	}
	return resp, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.SaleCompleted
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		items[i] = *saleToResponse(&sales[i])
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) Cancel(ctx context.Context, id uuid.UUID, userID uint, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSaleNotFound
	}
	if sale.Status == model.SaleCancelled {
		return ErrSaleAlreadyVoid
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleRef := model.SaleRef(sale.ID)
		note := fmt.Sprintf("cancelled sale %s: %s", sale.ReceiptNumber, reason)
		for _, item := range sale.Items {
			if err := s.inventory.RestoreForSaleTx(tx, item.ProductID, userID, item.Quantity, saleRef, note); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, model.SaleCancelled, model.PaymentRefunded)
	})
}

// taxRate reads the store-wide rate from the settings singleton. A missing
// row (fresh database before migrations seed it) means no tax.
func (s *saleService) taxRate(ctx context.Context) (decimal.Decimal, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	// tax_rate is a percentage (e.g. 15.00)
	return settings.TaxRate.Div(decimal.NewFromInt(100)), nil
}

// nextReceipt tolerates a nil tx so unit tests with stub repos work; stubs
// implement NextReceiptNumber without touching the sequence.
func (s *saleService) nextReceipt(tx *gorm.DB) (string, error) {
	return s.repo.NextReceiptNumber(tx)
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Subtotal:    item.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		ReceiptNumber: sale.ReceiptNumber,
		Items:         items,
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Discount:      sale.Discount,
		TotalAmount:   sale.TotalAmount,
		Status:        sale.Status,
		PaymentMethod: sale.PaymentMethod,
		PaymentStatus: sale.PaymentStatus,
		Notes:         sale.Notes,
		CreatedAt:     sale.CreatedAt.UTC().Format(time.RFC3339),
	}
}
