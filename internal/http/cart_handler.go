package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	FetchCart(ctx context.Context, userID string) (*service.CartView, error)
	AddItem(ctx context.Context, in service.AddItemInput) (*service.CartView, error)
	UpdateQuantity(ctx context.Context, in service.UpdateItemInput) (*service.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*service.CartView, error)
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemRequest struct {
	UserID    string  `json:"userId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Meters    float64 `json:"meters"`
	Size      string  `json:"size"`
}

// GetCart handles GET /api/shop/cart/get/{userId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.FetchCart(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/shop/cart/add
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !sameUser(w, r, req.UserID) {
		return
	}

	cart, err := h.carts.AddItem(r.Context(), service.AddItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Meters:    req.Meters,
		Size:      req.Size,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateQuantity handles PUT /api/shop/cart/update-quantity
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !sameUser(w, r, req.UserID) {
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), service.UpdateItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Meters:    req.Meters,
		Size:      req.Size,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/shop/cart/delete/{userId}/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "productId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
