package ports

import (
	"context"

	"github.com/sirpyerre/account-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Implementations must enforce email uniqueness at the schema level and
// surface violations as domain.ErrEmailTaken.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
