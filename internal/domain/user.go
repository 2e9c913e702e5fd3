package domain

import (
	"time"
)

// User represents a registered federation member or staff account.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	BeltRank     string  `json:"belt_rank"`
	PhoneNumber  string  `json:"phone_number,omitempty"`
	PhotoURL     string  `json:"photo_url,omitempty"`
	GoogleID     *string `json:"-"`

	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`

	DOB         *time.Time `json:"dob,omitempty"`
	MemberSince time.Time  `json:"member_since"`

	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CanLoginWithPassword reports whether the account has a stored password hash.
func (u *User) CanLoginWithPassword() bool {
	return u.PasswordHash != ""
}

// CanLoginWithGoogle reports whether the account is linked to a Google identity.
func (u *User) CanLoginWithGoogle() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

// Belt rank constants in promotion order.
const (
	BeltWhite  = "white"
	BeltYellow = "yellow"
	BeltOrange = "orange"
	BeltGreen  = "green"
	BeltBlue   = "blue"
	BeltRed    = "red"
	BeltBlack  = "black"
)

// ValidBeltRanks returns the set of valid belt ranks.
func ValidBeltRanks() []string {
	return []string{BeltWhite, BeltYellow, BeltOrange, BeltGreen, BeltBlue, BeltRed, BeltBlack}
}

// IsValidBeltRank checks whether the given string is a valid belt rank.
func IsValidBeltRank(rank string) bool {
	for _, r := range ValidBeltRanks() {
		if r == rank {
			return true
		}
	}
	return false
}
