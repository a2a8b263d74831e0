package models

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var (
	ErrAddressIncomplete = errors.New("please fill in all required address fields")
	ErrInvalidPhone      = errors.New("phone number must be 10 digits")
	ErrInvalidPincode    = errors.New("pincode must be 6 digits")
)

type Address struct {
	ID           string `json:"_id,omitempty"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"isDefault"`
	Label        string `json:"label,omitempty"` // home/work/other
}

// Validate is the pre-flight check run before an address is sent upstream.
// The upstream performs its own validation.
func (a Address) Validate() error {
	for _, v := range []string{a.FullName, a.Phone, a.AddressLine1, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(v) == "" {
			return ErrAddressIncomplete
		}
	}
	if !allDigits(a.Phone, 10) {
		return ErrInvalidPhone
	}
	if !allDigits(a.Pincode, 6) {
		return ErrInvalidPincode
	}
	return nil
}

func allDigits(s string, n int) bool {
	s = strings.TrimSpace(s)
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type SavedCard struct {
	ID     string `json:"_id,omitempty"`
	Last4  string `json:"last4"`
	Brand  string `json:"brand,omitempty"`
	Expiry string `json:"expiry,omitempty"`
}

type User struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Role          string         `json:"role,omitempty"`
	IsPremium     bool           `json:"isPremium"`
	PremiumExpiry *time.Time     `json:"premiumExpiry,omitempty"`
	Addresses     []Address      `json:"addresses,omitempty"`
	SavedCards    []SavedCard    `json:"savedCards,omitempty"`
	SavedCart     []CartLineItem `json:"savedCart,omitempty"`
}

// PremiumActive reports whether the user is premium with no expiry or an
// expiry after now.
func (u *User) PremiumActive(now time.Time) bool {
	if u == nil || !u.IsPremium {
		return false
	}
	return u.PremiumExpiry == nil || u.PremiumExpiry.After(now)
}

// IsAdmin reports whether the upstream granted the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, "admin")
}

// DefaultAddress returns the address flagged default, else the first one.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(addresses) > 0 {
		return addresses[0], true
	}
	return Address{}, false
}
