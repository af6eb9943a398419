package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is the authenticated user as handed over by the auth service. Plan
// and Role are kept as raw strings: they may come from a stale or corrupted
// session record and are resolved by the entitlement layer.
type User struct {
	ID               string `json:"id" validate:"required,max=64"`
	Name             string `json:"name" validate:"omitempty,min=3,max=150"`
	Email            string `json:"email" validate:"omitempty,email,max=200"`
	Plan             string `json:"plan" validate:"required,max=50"`
	Role             string `json:"role,omitempty" validate:"max=50"`
	IdentityVerified bool   `json:"identity_verified"`
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

// Normalize trims user supplied fields in place.
func (u *User) Normalize() {
	u.ID = strings.TrimSpace(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Plan = strings.ToLower(strings.TrimSpace(u.Plan))
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
}

// Clone returns a copy the caller may modify.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
