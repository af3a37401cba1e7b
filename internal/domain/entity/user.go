package entity

import "time"

// Role determines which operations an identity may invoke.
// A user with no assigned role carries RoleUnset and is rejected by
// every role guard.
// Values are stored verbatim, so they must stay lower-case to satisfy
// the users.role check constraint.
type Role string

const (
	RoleUnset  Role = ""
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User is the aggregate root for the account domain.
// Email is unique across the store; registration is insert-once.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // bcrypt hash
	Role           Role      `json:"role"`
	SellerVerified bool      `json:"seller_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
