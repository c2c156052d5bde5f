package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

type FeatureService struct {
	features repository.FeatureRepository
}

func NewFeatureService(features repository.FeatureRepository) *FeatureService {
	return &FeatureService{features: features}
}

// Add stores an already-hosted banner image URL.
func (s *FeatureService) Add(ctx context.Context, image string) (*domain.FeatureImage, error) {
	image = strings.TrimSpace(image)
	u, err := url.Parse(image)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: image must be an http(s) URL", ErrInvalidInput)
	}

	f := &domain.FeatureImage{Image: image}
	if err := s.features.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeatureService) List(ctx context.Context) ([]*domain.FeatureImage, error) {
	return s.features.List(ctx)
}

func (s *FeatureService) Delete(ctx context.Context, id string) error {
	return s.features.Delete(ctx, id)
}
