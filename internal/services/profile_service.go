package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
)

// ProfileService is the read-only, username-keyed view of users.
type ProfileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) List(ctx context.Context, id access.Identity, limit, offset int) ([]models.User, int64, error) {
	scope, err := access.ProfileScope(id, access.ActionList)
	if err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.List(ctx, repository.Query{Scope: scope, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	return users, total, nil
}

func (s *ProfileService) Get(ctx context.Context, id access.Identity, username string) (*models.User, error) {
	scope, err := access.ProfileScope(id, access.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByUsername(ctx, scope, username)
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound, "get profile")
	}
	return u, nil
}
