package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/account-service/internal/core/domain"
	"github.com/sirpyerre/account-service/internal/core/ports"
)

const cacheTTL = 5 * time.Minute

// CachedUserRepository decorates a UserRepository with a read-through Redis
// cache of single-user lookups. Writes invalidate the affected entry; cache
// failures degrade to the underlying store and are logged, never surfaced.
// Key format: user:<id>
type CachedUserRepository struct {
	inner  ports.UserRepository
	client *redis.Client
	log    zerolog.Logger
}

func NewCachedUserRepository(inner ports.UserRepository, client *redis.Client, log zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, client: client, log: log}
}

// cachedUser is the cache wire format. domain.User deliberately refuses to
// marshal its hash, so the cache keeps its own mirror to stay a faithful
// replica of the store row.
type cachedUser struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Role         domain.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (r *CachedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.inner.List(ctx)
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == nil {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			return cu.toDomain(), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
	}

	user, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.inner.ExistsByEmail(ctx, email)
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.inner.Create(ctx, user)
}

func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	updated, err := r.inner.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated.ID)
	return updated, nil
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedUserRepository) store(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(&cachedUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(user.ID), raw, cacheTTL).Err(); err != nil {
		r.log.Warn().Err(err).Str("user_id", user.ID).Msg("user cache write failed")
	}
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		r.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

func (r *CachedUserRepository) key(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (cu *cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           cu.ID,
		Email:        cu.Email,
		PasswordHash: cu.PasswordHash,
		FirstName:    cu.FirstName,
		LastName:     cu.LastName,
		Role:         cu.Role,
		IsActive:     cu.IsActive,
		CreatedAt:    cu.CreatedAt,
		UpdatedAt:    cu.UpdatedAt,
	}
}
