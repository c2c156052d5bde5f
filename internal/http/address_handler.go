package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type AddressService interface {
	Add(ctx context.Context, userID string, in service.AddressInput) (*domain.Address, error)
	List(ctx context.Context, userID string) ([]*domain.Address, error)
	Update(ctx context.Context, userID, addressID string, in service.AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

type AddressHandler struct {
	addresses AddressService
}

func NewAddressHandler(addresses AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type addressRequest struct {
	UserID  string `json:"userId"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (req addressRequest) input() service.AddressInput {
	return service.AddressInput{
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
}

func (h *AddressHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !sameUser(w, r, req.UserID) {
		return
	}

	a, err := h.addresses.Add(r.Context(), req.UserID, req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addresses.List(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	a, err := h.addresses.Update(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "addressId"), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.Delete(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "addressId")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "addressId")})
}
