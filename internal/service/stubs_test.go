package service

import (
	"context"
	"fmt"
	"time"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services run their transactions through
// runTx with a nil *gorm.DB, so every Tx method here ignores the handle.

func newTestSaleID() uuid.UUID { return uuid.New() }

// ── products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product)}
}

func (r *stubProductRepo) seed(name, barcode string, price float64) *model.Product {
	r.nextID++
	p := &model.Product{
		ID:       r.nextID,
		Name:     name,
		Barcode:  barcode,
		Price:    decimal.NewFromFloat(price),
		IsOnline: true,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	for _, existing := range r.products {
		if existing.Barcode == p.Barcode {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uint, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	rows   map[uint]*model.Inventory
	txLog  []model.InventoryTransaction
	nextID uint
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{rows: make(map[uint]*model.Inventory)}
}

func (r *stubInventoryRepo) seed(productID uint, qty, minQty int, location string) *model.Inventory {
	r.nextID++
	inv := &model.Inventory{
		ID:          r.nextID,
		ProductID:   productID,
		Quantity:    qty,
		MinQuantity: minQty,
		Location:    location,
	}
	r.rows[inv.ID] = inv
	return inv
}

func (r *stubInventoryRepo) Create(_ context.Context, inv *model.Inventory) error {
	r.nextID++
	inv.ID = r.nextID
	r.rows[inv.ID] = inv
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uint) (*model.Inventory, error) {
	inv, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return inv, nil
}

func (r *stubInventoryRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.Inventory, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubInventoryRepo) LockByIDTx(_ *gorm.DB, id uint) (*model.Inventory, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubInventoryRepo) FindByProductID(_ context.Context, productID uint) ([]model.Inventory, error) {
	var out []model.Inventory
	for id := uint(1); id <= r.nextID; id++ {
		if inv, ok := r.rows[id]; ok && inv.ProductID == productID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) List(_ context.Context, _, _ int) ([]model.Inventory, int64, error) {
	out := make([]model.Inventory, 0, len(r.rows))
	for id := uint(1); id <= r.nextID; id++ {
		if inv, ok := r.rows[id]; ok {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) ListBelowMinimum(_ context.Context) ([]model.Inventory, error) {
	var out []model.Inventory
	for _, inv := range r.rows {
		if inv.Quantity <= inv.MinQuantity {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) Update(_ context.Context, inv *model.Inventory) error {
	r.rows[inv.ID] = inv
	return nil
}

func (r *stubInventoryRepo) UpdateQuantityTx(_ *gorm.DB, id uint, newQuantity int) error {
	inv, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Quantity = newQuantity
	return nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uint) error {
	for _, t := range r.txLog {
		if t.InventoryID == id {
			return repository.ErrInventoryHasTransactions
		}
	}
	delete(r.rows, id)
	return nil
}

func (r *stubInventoryRepo) CreateTransactionTx(_ *gorm.DB, t *model.InventoryTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.txLog = append(r.txLog, *t)
	return nil
}

func (r *stubInventoryRepo) ListTransactions(_ context.Context, filter repository.TransactionFilter) ([]model.InventoryTransaction, int64, error) {
	var out []model.InventoryTransaction
	for _, t := range r.txLog {
		if filter.InventoryID != nil && t.InventoryID != *filter.InventoryID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	receiptSeq int64
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status, paymentStatus string) error {
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.PaymentStatus = paymentStatus
	return nil
}

func (r *stubSaleRepo) NextReceiptNumber(_ *gorm.DB) (string, error) {
	r.receiptSeq++
	return fmt.Sprintf("R-%06d", r.receiptSeq), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── settings ─────────────────────────────────────────────────────────────────

type stubSettingsRepo struct {
	row *model.Settings
}

func (r *stubSettingsRepo) Get(_ context.Context) (*model.Settings, error) {
	if r.row == nil {
		return nil, repository.ErrNotFound
	}
	return r.row, nil
}

func (r *stubSettingsRepo) Update(_ context.Context, s *model.Settings) error {
	s.ID = model.SettingsRowID
	r.row = s
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// ── users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uint) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uint) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── login history ────────────────────────────────────────────────────────────

type stubLoginHistoryRepo struct {
	rows []model.LoginHistory
}

func (r *stubLoginHistoryRepo) Create(_ context.Context, h *model.LoginHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.LoginTime.IsZero() {
		h.LoginTime = time.Now()
	}
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubLoginHistoryRepo) ListByUser(_ context.Context, userID uint, _, _ int) ([]model.LoginHistory, int64, error) {
	var out []model.LoginHistory
	for _, h := range r.rows {
		if h.UserID != nil && *h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLoginHistoryRepo) ListRecent(_ context.Context, _, _ int) ([]model.LoginHistory, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

var _ repository.LoginHistoryRepository = (*stubLoginHistoryRepo)(nil)

// ── notifications ────────────────────────────────────────────────────────────

type stubNotificationRepo struct {
	rows   []*model.Notification
	nextID uint
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.nextID++
	n.ID = r.nextID
	r.rows = append(r.rows, n)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID uint, unreadOnly bool, _, _ int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range r.rows {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) HasUnread(_ context.Context, userID uint, notifType, relatedID string) (bool, error) {
	for _, n := range r.rows {
		if n.UserID == userID && n.Type == notifType && !n.IsRead &&
			n.RelatedID != nil && *n.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID, id uint) error {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID uint) error {
	for _, n := range r.rows {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)
