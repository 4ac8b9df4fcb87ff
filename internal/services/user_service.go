package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/storage"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UserService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
	avatars   storage.AvatarStore
	now       func() time.Time
}

// NewUserService wires the user controller. avatars may be nil, in which
// case avatar uploads fail with ErrStorageUnavailable.
func NewUserService(users repository.UserRepository, addresses repository.AddressRepository, avatars storage.AvatarStore) *UserService {
	return &UserService{
		users:     users,
		addresses: addresses,
		avatars:   avatars,
		now:       time.Now,
	}
}

func (s *UserService) List(ctx context.Context, id access.Identity, limit, offset int) ([]models.User, int64, error) {
	scope, err := access.UserScope(id, access.ActionList)
	if err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.List(ctx, repository.Query{Scope: scope, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id access.Identity, userID uint) (*models.User, error) {
	scope, err := access.UserScope(id, access.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, scope, userID)
}

func (s *UserService) get(ctx context.Context, scope access.Scope, userID uint) (*models.User, error) {
	u, err := s.users.Get(ctx, scope, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "get user")
	}
	return u, nil
}

// Create stores a new user. date_joined is always assigned here, whatever
// the body says.
func (s *UserService) Create(ctx context.Context, id access.Identity, spec representation.FieldSpec, body []byte) (*models.User, error) {
	if _, err := access.UserScope(id, access.ActionCreate); err != nil {
		return nil, err
	}
	changes, err := spec.Decode(body, representation.ModeCreate)
	if err != nil {
		return nil, err
	}

	u := models.User{DateJoined: s.now().UTC()}
	if err := s.apply(ctx, &u, changes); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, access.AllRows(), u.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Update replaces (PUT) or patches (PATCH) the caller's own user row.
func (s *UserService) Update(ctx context.Context, id access.Identity, userID uint, spec representation.FieldSpec, body []byte, mode representation.Mode) (*models.User, error) {
	scope, err := access.UserScope(id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	u, err := s.get(ctx, scope, userID)
	if err != nil {
		return nil, err
	}

	changes, err := spec.Decode(body, mode)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, u, changes); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u, changes.Has("addresses")); err != nil {
		return nil, notFound(err, ErrUserNotFound, "update user")
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id access.Identity, userID uint) error {
	scope, err := access.UserScope(id, access.ActionDelete)
	if err != nil {
		return err
	}
	deleted, err := s.users.Delete(ctx, scope, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// SetAvatar uploads an image for the caller's own user row and records its
// storage key.
func (s *UserService) SetAvatar(ctx context.Context, id access.Identity, userID uint, up Upload) (*models.User, error) {
	scope, err := access.UserScope(id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	u, err := s.get(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	if s.avatars == nil {
		return nil, ErrStorageUnavailable
	}

	ext := strings.ToLower(path.Ext(up.Filename))
	if !imageExtensions[ext] || (up.ContentType != "" && !strings.HasPrefix(up.ContentType, "image/")) {
		return nil, validation.Errors{"avatar": {msgInvalidImage}}
	}

	key := storage.AvatarKey(u.Username, up.Filename, s.now())
	if err := s.avatars.PutAvatar(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	u.Avatar = &key
	if err := s.users.Update(ctx, u, false); err != nil {
		return nil, notFound(err, ErrUserNotFound, "update user")
	}
	return u, nil
}

// apply copies decoded values onto u, resolves the address set and runs
// model validation. Nothing is written to the store.
func (s *UserService) apply(ctx context.Context, u *models.User, ch representation.Changes) error {
	for source, dst := range map[string]*string{
		"username":   &u.Username,
		"first_name": &u.FirstName,
		"last_name":  &u.LastName,
		"name":       &u.Name,
		"email":      &u.Email,
		"bio":        &u.Bio,
		"salutation": &u.Salutation,
		"gender":     &u.Gender,
	} {
		if v, ok := ch.Text(source); ok {
			*dst = v
		}
	}
	for source, dst := range map[string]**string{
		"phone_home": &u.PhoneHome,
		"phone_work": &u.PhoneWork,
		"mobile":     &u.Mobile,
	} {
		if v, ok := ch.NullString(source); ok {
			*dst = v
		}
	}
	if v, ok := ch.Date("date_of_birth"); ok {
		u.DateOfBirth = v
	}

	errs := validation.Struct(u)
	if errs == nil {
		errs = validation.Errors{}
	}
	if ids, ok := ch.IDs("addresses"); ok {
		found, err := s.addresses.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("find addresses: %w", err)
		}
		existing := make(map[uint]bool, len(found))
		for _, a := range found {
			existing[a.ID] = true
		}
		for _, id := range ids {
			if !existing[id] {
				errs.Add("addresses", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			}
		}
		u.Addresses = found
	}
	return errs.Err()
}
