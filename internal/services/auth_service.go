package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService struct {
	users repository.UserRepository
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Signup creates an account with a password and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	user := models.User{
		Username:   req.Username,
		Email:      req.Email,
		DateJoined: s.now().UTC(),
	}

	errs := validation.Struct(&user)
	if errs == nil {
		errs = validation.Errors{}
	}
	if len(req.Password) < minPasswordLength {
		errs.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, access.AllRows(), user.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.issueToken(&user)
}

// Login exchanges a username and password for a token. Unknown users and
// wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, access.AllRows(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *models.User) (*dto.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		UserID:    user.ID,
		Username:  user.Username,
	}, nil
}
