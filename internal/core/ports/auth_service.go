package ports

import (
	"context"

	"github.com/sirpyerre/account-service/internal/core/domain"
)

// RegisterInput carries the data for public self-registration. The role is
// always USER; callers cannot choose it.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
