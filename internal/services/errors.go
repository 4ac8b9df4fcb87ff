package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStorageUnavailable = errors.New("avatar storage unavailable")
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// notFound maps a repository miss to the resource's sentinel and wraps
// anything else.
func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

func usernameTaken() validation.Errors {
	return validation.Errors{"username": {msgUsernameTaken}}
}
