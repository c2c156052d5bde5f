package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	Create(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch service.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
}

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Brand       *string             `json:"brand"`
	Price       *float64            `json:"price"`
	SalePrice   *float64            `json:"salePrice"`
	TotalStock  *int                `json:"totalStock"`
	Sizes       *string             `json:"sizes"`
	Unit        *domain.SellingUnit `json:"unit"`
	Images      []string            `json:"images"`
}

func (req productRequest) input() service.ProductInput {
	in := service.ProductInput{Images: req.Images, Unit: domain.UnitPiece}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Brand != nil {
		in.Brand = *req.Brand
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.SalePrice != nil {
		in.SalePrice = *req.SalePrice
	}
	if req.TotalStock != nil {
		in.TotalStock = *req.TotalStock
	}
	if req.Sizes != nil {
		in.Sizes = *req.Sizes
	}
	if req.Unit != nil {
		in.Unit = *req.Unit
	}
	return in
}

func (req productRequest) patch() service.ProductPatch {
	return service.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		TotalStock:  req.TotalStock,
		Sizes:       req.Sizes,
		Unit:        req.Unit,
		Images:      req.Images,
	}
}

// List handles GET /api/shop/products/get?category=a,b&brand=c&sortBy=price-hightolow
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.List(r.Context(), repository.ProductFilter{
		Categories: splitList(q.Get("category")),
		Brands:     splitList(q.Get("brand")),
		SortBy:     q.Get("sortBy"),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Search handles GET /api/shop/search/{keyword}
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Search(r.Context(), chi.URLParam(r, "keyword"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), repository.ProductFilter{})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	p, err := h.catalog.Create(r.Context(), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// Edit applies only the fields present in the body.
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	p, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
