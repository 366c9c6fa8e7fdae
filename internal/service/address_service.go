package service

import (
	"fmt"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"

	"github.com/google/uuid"
)

type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID string) ([]*domain.Address, error) {
	list, err := s.addresses.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return list, nil
}

func (s *AddressService) Create(userID string, req *domain.CreateAddressRequest) (*domain.Address, error) {
	address := &domain.Address{
		ID:        uuid.New().String(),
		UserID:    userID,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		Ward:      req.Ward,
		District:  req.District,
		Province:  req.Province,
		IsDefault: req.IsDefault,
	}

	if err := s.addresses.Create(address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}
