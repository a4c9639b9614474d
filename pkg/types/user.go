package types

import (
	"github.com/angelmondragon/gs-storefront/pkg/enums"
)

// Address is a saved shipping address scoped to one account.
type Address struct {
	ID        string `json:"id" validate:"required"`
	Label     string `json:"label"`
	Street    string `json:"street"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// UserAccount is a storefront account. Password is carried as an opaque pass-through field.
type UserAccount struct {
	ID        string         `json:"id" validate:"required"`
	Name      string         `json:"name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone,omitempty"`
	Password  string         `json:"password,omitempty"`
	Role      enums.UserRole `json:"role" validate:"required,oneof=CUSTOMER ADMIN"`
	CreatedAt string         `json:"createdAt"`
	Addresses []Address      `json:"addresses,omitempty" validate:"dive"`
}

// Validate checks field constraints only; address default uniqueness is checked by
// DefaultAddressCount callers.
func (u UserAccount) Validate() error {
	return validate.Struct(u)
}

// DefaultAddress returns the first address flagged as default.
func (u UserAccount) DefaultAddress() (Address, bool) {
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	return Address{}, false
}

// DefaultAddressCount reports how many addresses carry the default flag.
func (u UserAccount) DefaultAddressCount() int {
	count := 0
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			count++
		}
	}
	return count
}

// Clone returns a copy that shares no slices with u.
func (u UserAccount) Clone() UserAccount {
	dup := u
	if u.Addresses != nil {
		dup.Addresses = make([]Address, len(u.Addresses))
		copy(dup.Addresses, u.Addresses)
	}
	return dup
}

// CloneUsers deep-copies an account sequence.
func CloneUsers(items []UserAccount) []UserAccount {
	if items == nil {
		return nil
	}
	dup := make([]UserAccount, len(items))
	for i, u := range items {
		dup[i] = u.Clone()
	}
	return dup
}

// Identity is the lightweight current-user projection kept by a session.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	guestName  = "Guest User"
	guestEmail = "guest@example.com"
)

// GuestIdentity is the identity of a logged-out session.
func GuestIdentity() Identity {
	return Identity{Name: guestName, Email: guestEmail}
}

// IsGuest reports whether the identity is the anonymous guest.
func (i Identity) IsGuest() bool {
	return i == GuestIdentity()
}
