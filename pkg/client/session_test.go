package client

import (
	"path/filepath"
	"testing"
)

func TestSession_Lifecycle(t *testing.T) {
	sess, err := NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if sess.Active() {
		t.Fatalf("fresh session must be inactive")
	}

	user := &User{ID: "u1", Email: "a@b.com", Role: RoleUser}
	if err := sess.Establish("token123", user); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if !sess.Active() {
		t.Fatalf("established session must be active")
	}

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sess.Active() || sess.Token != "" || sess.User != nil {
		t.Fatalf("cleared session still holds state: %+v", sess)
	}
}

func TestSession_RoleSatisfies(t *testing.T) {
	sess, _ := NewSession(nil)
	if sess.RoleSatisfies(RoleAdmin, RoleManager) {
		t.Fatalf("inactive session must not satisfy any role")
	}

	_ = sess.Establish("t", &User{ID: "u1", Role: RoleManager})
	if !sess.RoleSatisfies(RoleAdmin, RoleManager) {
		t.Fatalf("MANAGER should satisfy {ADMIN, MANAGER}")
	}
	if sess.RoleSatisfies(RoleAdmin) {
		t.Fatalf("MANAGER should not satisfy {ADMIN}")
	}
}

func TestFileSessionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := &FileSessionStore{Path: path}

	sess, err := NewSession(store)
	if err != nil {
		t.Fatalf("NewSession with absent file: %v", err)
	}
	if sess.Active() {
		t.Fatalf("expected empty session")
	}

	user := &User{ID: "u1", Email: "a@b.com", Role: RoleAdmin}
	if err := sess.Establish("token123", user); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	reloaded, err := NewSession(&FileSessionStore{Path: path})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Active() {
		t.Fatalf("reloaded session must be active")
	}
	if reloaded.Token != "token123" || reloaded.User.Email != "a@b.com" {
		t.Fatalf("unexpected reloaded session: %+v", reloaded)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	third, err := NewSession(&FileSessionStore{Path: path})
	if err != nil {
		t.Fatalf("reload after clear: %v", err)
	}
	if third.Active() {
		t.Fatalf("session must stay cleared after restart")
	}
}
