// Package repository stores users and addresses. Every call is a single
// atomic store operation; callers pass the authorization scope and the
// repository never widens it.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Query selects a page of rows inside a scope. A zero Limit means no limit.
type Query struct {
	Scope  access.Scope
	Limit  int
	Offset int
}

// AddressRepository lists addresses newest first (descending id).
type AddressRepository interface {
	List(ctx context.Context, q Query) ([]models.Address, int64, error)
	Get(ctx context.Context, scope access.Scope, id uint) (*models.Address, error)
	// FindByIDs returns the addresses that exist among ids, in ascending id order.
	FindByIDs(ctx context.Context, ids []uint) ([]models.Address, error)
	Create(ctx context.Context, a *models.Address) error
	Update(ctx context.Context, a *models.Address) error
	Delete(ctx context.Context, scope access.Scope, id uint) (bool, error)
}

// UserRepository lists users by descending date_joined, then descending id.
// Loaded users carry their addresses in ascending id order.
type UserRepository interface {
	List(ctx context.Context, q Query) ([]models.User, int64, error)
	Get(ctx context.Context, scope access.Scope, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, scope access.Scope, username string) (*models.User, error)
	// Create inserts u and links the addresses already set on it.
	Create(ctx context.Context, u *models.User) error
	// Update saves u's columns, and its address links when replaceAddresses is set.
	Update(ctx context.Context, u *models.User, replaceAddresses bool) error
	Delete(ctx context.Context, scope access.Scope, id uint) (bool, error)
}
