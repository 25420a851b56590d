package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/account-service/internal/core/domain"
	"github.com/sirpyerre/account-service/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestUserService(repo ports.UserRepository) *UserService {
	return NewUserService(repo, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestUserService_Create_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Email:     "jo@example.com",
		Password:  "secret1",
		FirstName: "Jo",
		LastName:  "Doe",
		Role:      domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if !user.IsActive {
		t.Fatalf("expected isActive to default to true")
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Email != "jo@example.com" || got.FirstName != "Jo" || got.LastName != "Doe" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		input ports.CreateUserInput
	}{
		{"bad email", ports.CreateUserInput{Email: "not-an-email", Password: "secret1", FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser}},
		{"short password", ports.CreateUserInput{Email: "a@b.com", Password: "short", FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser}},
		{"short first name", ports.CreateUserInput{Email: "a@b.com", Password: "secret1", FirstName: "J", LastName: "Doe", Role: domain.RoleUser}},
		{"short last name", ports.CreateUserInput{Email: "a@b.com", Password: "secret1", FirstName: "Jo", LastName: "D", Role: domain.RoleUser}},
		{"bad role", ports.CreateUserInput{Email: "a@b.com", Password: "secret1", FirstName: "Jo", LastName: "Doe", Role: "WIZARD"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	input := ports.CreateUserInput{
		Email: "dup@example.com", Password: "secret1",
		FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser,
	}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(ctx, input); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(repo.users))
	}
}

func TestUserService_Update_Partial(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Create(ctx, ports.CreateUserInput{
		Email: "jo@example.com", Password: "secret1",
		FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	before := repo.users[user.ID]

	updated, err := svc.Update(ctx, user.ID, ports.UpdateUserInput{FirstName: strPtr("Xa")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Xa" {
		t.Fatalf("firstName not updated: %q", updated.FirstName)
	}
	if updated.Email != before.Email || updated.LastName != before.LastName ||
		updated.Role != before.Role || updated.IsActive != before.IsActive ||
		updated.PasswordHash != before.PasswordHash {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", before.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUserService_Update_Password(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Create(ctx, ports.CreateUserInput{
		Email: "jo@example.com", Password: "secret1",
		FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, user.ID, ports.UpdateUserInput{Password: strPtr("tiny")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}

	if _, err := svc.Update(ctx, user.ID, ports.UpdateUserInput{Password: strPtr("newsecret")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	stored := repo.users[user.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}

func TestUserService_Update_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.CreateUserInput{
		Email: "a@example.com", Password: "secret1",
		FirstName: "Aa", LastName: "Aa", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.Create(ctx, ports.CreateUserInput{
		Email: "b@example.com", Password: "secret1",
		FirstName: "Bb", LastName: "Bb", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, b.ID, ports.UpdateUserInput{Email: strPtr("a@example.com")}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())
	if _, err := svc.Update(context.Background(), "missing", ports.UpdateUserInput{FirstName: strPtr("Xa")}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Create(ctx, ports.CreateUserInput{
		Email: "jo@example.com", Password: "secret1",
		FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for second delete, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Create(ctx, ports.CreateUserInput{
			Email: email, Password: "secret1",
			FirstName: "Jo", LastName: "Doe", Role: domain.RoleUser,
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
