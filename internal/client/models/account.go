// Package models defines the domain types shared by the VisitorDesk client:
// user accounts, the authenticated session, and visitor log records. All
// types marshal to the JSON document shape stored in the remote collections.
package models

// Role of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// AccountStatus of an account.
type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusDeactivated AccountStatus = "deactivated"
)

// Account is an identity record in the users collection, keyed by username.
// The username is immutable once created. SecretHash holds the bcrypt hash
// of the credential; it never leaves the directory layer.
type Account struct {
	Username   string        `json:"username"`
	SecretHash string        `json:"secretHash"`
	FullName   string        `json:"fullName"`
	Email      string        `json:"email,omitempty"`
	Role       Role          `json:"role"`
	Status     AccountStatus `json:"status"`
	CreatedAt  string        `json:"createdAt"`
}

// Sanitized returns a copy of the account with the credential hash stripped.
func (a Account) Sanitized() Account {
	c := a
	c.SecretHash = ""
	return c
}
