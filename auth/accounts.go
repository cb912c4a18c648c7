package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-delivery-broker/errs"
	"food-delivery-broker/models"
)

// UserStore is the persistence Accounts needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Registration is the input to Register
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// Accounts registers users and exchanges passwords for tokens
type Accounts struct {
	users  UserStore
	hasher PasswordHasher
	tokens *TokenService
}

func NewAccounts(users UserStore, hasher PasswordHasher, tokens *TokenService) *Accounts {
	return &Accounts{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a customer or driver account
func (a *Accounts) Register(ctx context.Context, r Registration) (*models.User, error) {
	r.Email = normalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" || r.FirstName == "" || r.LastName == "" || r.Role == "" {
		return nil, errs.Validation("Missing required fields")
	}
	if !r.Role.Valid() {
		return nil, errs.Validation("Invalid role. Must be: customer or driver")
	}
	if r.Role == models.RoleAdmin {
		return nil, errs.Authorization("Admin accounts cannot be self-registered")
	}

	hash, err := a.hasher.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        r.Email,
		PasswordHash: hash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         r.Role,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the password and returns a fresh token with the user
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", nil, errs.Unauthenticated("Invalid credentials")
		}
		return "", nil, err
	}
	if !a.hasher.Matches(user.PasswordHash, password) {
		return "", nil, errs.Unauthenticated("Invalid credentials")
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Profile returns the user behind an identity
func (a *Accounts) Profile(ctx context.Context, id models.Identity) (*models.User, error) {
	return a.users.FindByID(ctx, id.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
