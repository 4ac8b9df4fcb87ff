package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
)

type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, id access.Identity, limit, offset int) ([]models.Address, int64, error) {
	scope, err := access.AddressScope(id, access.ActionList)
	if err != nil {
		return nil, 0, err
	}
	addresses, total, err := s.addresses.List(ctx, repository.Query{Scope: scope, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, total, nil
}

func (s *AddressService) Get(ctx context.Context, id access.Identity, addressID uint) (*models.Address, error) {
	scope, err := access.AddressScope(id, access.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	a, err := s.addresses.Get(ctx, scope, addressID)
	if err != nil {
		return nil, notFound(err, ErrAddressNotFound, "get address")
	}
	return a, nil
}

// Create decodes body with the write spec and stores a new address.
func (s *AddressService) Create(ctx context.Context, id access.Identity, spec representation.FieldSpec, body []byte) (*models.Address, error) {
	if _, err := access.AddressScope(id, access.ActionCreate); err != nil {
		return nil, err
	}
	changes, err := spec.Decode(body, representation.ModeCreate)
	if err != nil {
		return nil, err
	}

	var a models.Address
	applyAddress(&a, changes)
	if errs := validation.Struct(&a); errs != nil {
		return nil, errs
	}
	if err := s.addresses.Create(ctx, &a); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return &a, nil
}

// Update replaces (PUT) or patches (PATCH) an address, depending on mode.
func (s *AddressService) Update(ctx context.Context, id access.Identity, addressID uint, spec representation.FieldSpec, body []byte, mode representation.Mode) (*models.Address, error) {
	scope, err := access.AddressScope(id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	a, err := s.addresses.Get(ctx, scope, addressID)
	if err != nil {
		return nil, notFound(err, ErrAddressNotFound, "get address")
	}

	changes, err := spec.Decode(body, mode)
	if err != nil {
		return nil, err
	}
	applyAddress(a, changes)
	if errs := validation.Struct(a); errs != nil {
		return nil, errs
	}
	if err := s.addresses.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAddressNotFound, "update address")
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, id access.Identity, addressID uint) error {
	scope, err := access.AddressScope(id, access.ActionDelete)
	if err != nil {
		return err
	}
	deleted, err := s.addresses.Delete(ctx, scope, addressID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if !deleted {
		return ErrAddressNotFound
	}
	return nil
}

func applyAddress(a *models.Address, ch representation.Changes) {
	for source, dst := range map[string]*string{
		"address1": &a.Address1,
		"address2": &a.Address2,
		"area":     &a.Area,
		"city":     &a.City,
		"county":   &a.County,
		"postcode": &a.Postcode,
		"country":  &a.Country,
	} {
		if v, ok := ch.Text(source); ok {
			*dst = v
		}
	}
}
