package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the closed set of roles a user can hold
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Email          string          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string          `json:"-" gorm:"not null"`
	FirstName      string          `json:"firstName" gorm:"not null"`
	LastName       string          `json:"lastName" gorm:"not null"`
	Role           Role            `json:"role" gorm:"not null;default:'customer'"`
	AccountBalance decimal.Decimal `json:"accountBalance" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Identity is who a verified credential speaks for
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity returns the identity a token issued for u carries
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}
