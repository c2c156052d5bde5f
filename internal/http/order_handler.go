package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error)
	Capture(ctx context.Context, in service.CaptureInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	Details(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	UserID        string             `json:"userId"`
	CartID        string             `json:"cartId"`
	CartItems     []domain.OrderItem `json:"cartItems"`
	AddressInfo   domain.AddressInfo `json:"addressInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalAmount   float64            `json:"totalAmount"`
}

type captureRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	PayerID   string `json:"payerId"`
	Signature string `json:"signature"`
}

type updateStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

// Create handles POST /api/shop/order/create
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !sameUser(w, r, req.UserID) {
		return
	}

	result, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		UserID:        req.UserID,
		CartID:        req.CartID,
		Items:         req.CartItems,
		Address:       req.AddressInfo,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Capture handles POST /api/shop/order/capture
func (h *OrderHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if req.OrderID == "" {
		handleServiceError(w, r, fmt.Errorf("%w: order id is required", service.ErrInvalidInput))
		return
	}

	// ownership is checked before any stock is touched
	order, err := h.orders.Details(r.Context(), req.OrderID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !canView(r, order) {
		handleServiceError(w, r, repository.ErrOrderNotFound)
		return
	}

	order, err = h.orders.Capture(r.Context(), service.CaptureInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		PayerID:   req.PayerID,
		Signature: req.Signature,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// ListByUser handles GET /api/shop/order/list/{userId}
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Details handles GET /api/shop/order/details/{id}. Other users' orders look missing.
func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !canView(r, order) {
		handleServiceError(w, r, repository.ErrOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// AdminList handles GET /api/admin/orders/get
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// AdminDetails handles GET /api/admin/orders/details/{id}
func (h *OrderHandler) AdminDetails(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/admin/orders/update/{id}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.OrderStatus)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func canView(r *http.Request, order *domain.Order) bool {
	claims := getClaims(r.Context())
	return claims != nil && (claims.IsAdmin() || claims.UserID == order.UserID)
}
