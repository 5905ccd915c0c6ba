package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/user"
	"github.com/Strob0t/tasksync/internal/port/database"
)

// ErrInvalidCredentials is returned by Authenticate for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInactiveUser is returned by Authenticate for disabled accounts.
var ErrInactiveUser = errors.New("inactive user")

// UserService manages accounts and password checks.
type UserService struct {
	store      database.Store
	bcryptCost int
}

// NewUserService creates a new UserService. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewUserService(store database.Store, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{store: store, bcryptCost: bcryptCost}
}

// Create registers a new active user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		IsActive:     true,
		IsSuperuser:  req.IsSuperuser,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetUser(ctx, id)
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]user.User, error) {
	skip, limit = domain.ClampPage(skip, limit)
	return s.store.ListUsers(ctx, skip, limit)
}

// Update applies the set fields of req to the user.
func (s *UserService) Update(ctx context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(u)
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}

// Authenticate checks email and password and returns the matching active user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}
