package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type FeatureService interface {
	Add(ctx context.Context, image string) (*domain.FeatureImage, error)
	List(ctx context.Context) ([]*domain.FeatureImage, error)
	Delete(ctx context.Context, id string) error
}

type FeatureHandler struct {
	features FeatureService
}

func NewFeatureHandler(features FeatureService) *FeatureHandler {
	return &FeatureHandler{features: features}
}

func (h *FeatureHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	f, err := h.features.Add(r.Context(), req.Image)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	features, err := h.features.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, features)
}

func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.features.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}
