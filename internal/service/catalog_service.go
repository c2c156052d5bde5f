package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

type ProductInput struct {
	Title       string
	Description string
	Category    string
	Brand       string
	Price       float64
	SalePrice   float64
	TotalStock  int
	Sizes       string
	Unit        domain.SellingUnit
	Images      []string
}

// ProductPatch carries the fields an admin edit supplied. Nil means unchanged.
type ProductPatch struct {
	Title       *string
	Description *string
	Category    *string
	Brand       *string
	Price       *float64
	SalePrice   *float64
	TotalStock  *int
	Sizes       *string
	Unit        *domain.SellingUnit
	Images      []string
}

type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		TotalStock:  in.TotalStock,
		Sizes:       in.Sizes,
		Unit:        in.Unit,
		Images:      in.Images,
	}
	if err := normalizeProduct(p); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.TotalStock != nil {
		p.TotalStock = *patch.TotalStock
	}
	if patch.Sizes != nil {
		p.Sizes = *patch.Sizes
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}

	if err := normalizeProduct(p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns products filtered by category and brand. Unknown sort keys fall
// back to price ascending.
func (s *CatalogService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	switch filter.SortBy {
	case repository.SortPriceLowToHigh, repository.SortPriceHighToLow,
		repository.SortTitleAToZ, repository.SortTitleZToA:
	default:
		filter.SortBy = repository.SortPriceLowToHigh
	}
	return s.products.List(ctx, filter)
}

func (s *CatalogService) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", ErrInvalidInput)
	}
	return s.products.Search(ctx, keyword)
}

func normalizeProduct(p *domain.Product) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if p.Price < 0 || p.SalePrice < 0 {
		return fmt.Errorf("%w: prices cannot be negative", ErrInvalidInput)
	}
	if p.TotalStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	if p.Unit == "" {
		p.Unit = domain.UnitPiece
	}
	if !p.Unit.Valid() {
		return fmt.Errorf("%w: unit must be %q or %q", ErrInvalidInput, domain.UnitPiece, domain.UnitMeter)
	}
	p.Sizes = domain.ParseSizes(p.Sizes).String()
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}
