package entity

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UserStatus tracks a pending role-change request. The empty value means
// the user never asked for one.
type UserStatus string

const (
	UserStatusNone      UserStatus = ""
	UserStatusRequested UserStatus = "Requested"
	UserStatusVerified  UserStatus = "Verified"
)

type User struct {
	ID        string     `json:"_id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Image     string     `json:"image,omitempty"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status,omitempty"`
	CreatedAt time.Time  `json:"timestamp"`
}

// NewUser builds a first-time profile. Every new account starts as a customer.
func NewUser(email, name, image string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return &User{
		Email:     email,
		Name:      name,
		Image:     image,
		Role:      RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CanRequestRoleChange reports whether a new request may be filed.
// A pending request blocks further ones until an admin acts on it.
func (u *User) CanRequestRoleChange() bool {
	return u.Status != UserStatusRequested
}
