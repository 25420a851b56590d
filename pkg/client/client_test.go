package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Login_EstablishesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.com" || body["password"] != "secret1" {
			t.Fatalf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token123",
			"user":         User{ID: "u1", Email: "a@b.com", Role: RoleAdmin},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, _ := NewSession(nil)

	user, err := c.Login(context.Background(), sess, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !sess.Active() || sess.Token != "token123" {
		t.Fatalf("session not established: %+v", sess)
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token123" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]User{{ID: "u1"}, {ID: "u2"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, _ := NewSession(nil)
	_ = sess.Establish("token123", &User{ID: "u1", Role: RoleAdmin})

	users, err := c.ListUsers(context.Background(), sess)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "user with this email already exists"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, _ := NewSession(nil)

	_, err := c.Register(context.Background(), sess, RegisterParams{
		Email: "a@b.com", Password: "secret1", FirstName: "Jo", LastName: "Doe",
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", apiErr.Status)
	}
	if apiErr.Message != "user with this email already exists" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if sess.Active() {
		t.Fatalf("session must not be established on failure")
	}
}

func TestClient_DeleteUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/users/u2" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, _ := NewSession(nil)
	_ = sess.Establish("token123", &User{ID: "u1", Role: RoleAdmin})

	msg, err := c.DeleteUser(context.Background(), sess, "u2")
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if msg != "User deleted successfully" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestClient_SparseUpdateOmitsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if len(raw) != 1 {
			t.Fatalf("expected exactly one field in patch, got %v", raw)
		}
		if raw["firstName"] != "Xa" {
			t.Fatalf("unexpected patch: %v", raw)
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1", FirstName: "Xa"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, _ := NewSession(nil)
	_ = sess.Establish("token123", &User{ID: "u1", Role: RoleAdmin})

	name := "Xa"
	if _, err := c.UpdateUser(context.Background(), sess, "u1", UpdateUserParams{FirstName: &name}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
}
