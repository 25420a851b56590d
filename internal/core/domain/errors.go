package domain

import "errors"

var ErrValidation = errors.New("invalid input")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("user with this email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
