package dto

import (
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// Presence of required fields is checked by the services so that every
// caller (HTTP, cmd/tool) gets the same missing_field errors. Requests only
// enforce shape: format and length.

type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,pwbytes"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = domain.NormalizeEmail(r.Email)
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = domain.NormalizeEmail(r.Email)
	return nil
}

// CreateUserRequest has the same shape as registration.
type CreateUserRequest = RegisterRequest

// UpdateUserRequest is a partial update; absent fields stay untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,pwbytes"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Email != nil {
		e := domain.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	return validateStruct(r)
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateStruct(r)
}
