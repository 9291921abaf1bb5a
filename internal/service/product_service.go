package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBarcodeTaken    = errors.New("barcode already in use")
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	barcode := req.Barcode
	generated := req.IsGeneratedBarcode
	if barcode == "" {
		barcode = generateBarcode()
		generated = true
	}

	p := &model.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		Cost:               req.Cost,
		Category:           orDefault(req.Category, "general"),
		Barcode:            barcode,
		IsGeneratedBarcode: generated,
		NameAr:             req.NameAr,
		DescriptionAr:      req.DescriptionAr,
		SerialNumber:       req.SerialNumber,
		UnitID:             req.UnitID,
		IsOnline:           true,
	}
	if req.IsOnline != nil {
		p.IsOnline = *req.IsOnline
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBarcodeTaken
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, len(products))
	for i := range products {
		items[i] = *productToResponse(&products[i])
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, errors.New("cost must not be negative")
		}
		p.Cost = req.Cost
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.NameAr != nil {
		p.NameAr = req.NameAr
	}
	if req.DescriptionAr != nil {
		p.DescriptionAr = req.DescriptionAr
	}
	if req.SerialNumber != nil {
		p.SerialNumber = req.SerialNumber
	}
	if req.UnitID != nil {
		p.UnitID = req.UnitID
	}
	if req.IsOnline != nil {
		p.IsOnline = *req.IsOnline
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// Delete removes a product unless it appears in any sale (RESTRICT FK).
func (s *productService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(ctx, id)
}

// generateBarcode mints an EAN-13 style in-store code with the 2x prefix
// reserved for internal use. Uniqueness is enforced by the DB index; a
// collision surfaces as ErrBarcodeTaken and the client retries.
func generateBarcode() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	digits := fmt.Sprintf("20%010d", n.Int64())
	return digits + checkDigit(digits)
}

// checkDigit computes the EAN-13 checksum for a 12-digit payload.
func checkDigit(digits string) string {
	sum := 0
	for i, r := range digits {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return fmt.Sprintf("%d", (10-sum%10)%10)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Cost:               p.Cost,
		Stock:              p.Stock,
		Category:           p.Category,
		Barcode:            p.Barcode,
		IsGeneratedBarcode: p.IsGeneratedBarcode,
		NameAr:             p.NameAr,
		DescriptionAr:      p.DescriptionAr,
		SerialNumber:       p.SerialNumber,
		UnitID:             p.UnitID,
		IsOnline:           p.IsOnline,
		CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
