package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

type AddressInput struct {
	Address string
	City    string
	Pincode string
	Phone   string
	Notes   string
}

type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) Add(ctx context.Context, userID string, in AddressInput) (*domain.Address, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}

	a := &domain.Address{
		UserID:  userID,
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		Pincode: strings.TrimSpace(in.Pincode),
		Phone:   strings.TrimSpace(in.Phone),
		Notes:   in.Notes,
	}
	if err := s.addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, userID string) ([]*domain.Address, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.addresses.ListByUser(ctx, userID)
}

func (s *AddressService) Update(ctx context.Context, userID, addressID string, in AddressInput) (*domain.Address, error) {
	if userID == "" || addressID == "" {
		return nil, fmt.Errorf("%w: user id and address id are required", ErrInvalidInput)
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}

	a := &domain.Address{
		ID:      addressID,
		UserID:  userID,
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		Pincode: strings.TrimSpace(in.Pincode),
		Phone:   strings.TrimSpace(in.Phone),
		Notes:   in.Notes,
	}
	if err := s.addresses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if userID == "" || addressID == "" {
		return fmt.Errorf("%w: user id and address id are required", ErrInvalidInput)
	}
	return s.addresses.Delete(ctx, userID, addressID)
}

func validateAddress(in AddressInput) error {
	required := []struct{ name, value string }{
		{"address", in.Address},
		{"city", in.City},
		{"pincode", in.Pincode},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}
