package ports

import (
	"context"

	"github.com/sirpyerre/account-service/internal/core/domain"
)

// CreateUserInput carries the data for an administrative account creation.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
	IsActive  *bool // nil means default (active)
}

// UpdateUserInput is a sparse patch: nil fields are left untouched, so an
// omitted field is distinguishable from an explicitly supplied one.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
	IsActive  *bool
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
