package handler

import "github.com/sirpyerre/account-service/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName"  validate:"required,min=2"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName"  validate:"required,min=2"`
	Role      string `json:"role"      validate:"required,oneof=ADMIN MANAGER USER ANONYMOUS"`
	IsActive  *bool  `json:"isActive"`
}

// updateUserRequest is a sparse patch: absent JSON keys stay nil and the
// corresponding fields keep their stored values.
type updateUserRequest struct {
	Email     *string `json:"email"     validate:"omitempty,email"`
	Password  *string `json:"password"  validate:"omitempty,min=6"`
	FirstName *string `json:"firstName" validate:"omitempty,min=2"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=2"`
	Role      *string `json:"role"      validate:"omitempty,oneof=ADMIN MANAGER USER ANONYMOUS"`
	IsActive  *bool   `json:"isActive"`
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
