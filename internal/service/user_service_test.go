package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", model.RoleAdmin) // password "secret"

	token, user, err := f.auth.Login(ctx, LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.Token == "" {
		t.Error("empty token")
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want ADMIN", user.Role)
	}

	if _, _, err := f.auth.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"}); err == nil {
		t.Error("wrong password should fail")
	}
	if _, _, err := f.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "secret"}); err == nil {
		t.Error("unknown user should fail")
	}
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.auth.CreateUser(ctx, CreateUserRequest{
		Username: "hr_lead",
		Password: "s3cret-pass",
		Role:     model.RoleHRManager,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.Username != "hr_lead" || created.Role != model.RoleHRManager {
		t.Errorf("created = %+v", created)
	}

	// the stored password is hashed, so login round-trips
	if _, _, err := f.auth.Login(ctx, LoginRequest{Username: "hr_lead", Password: "s3cret-pass"}); err != nil {
		t.Errorf("login as new user: %v", err)
	}

	if _, err := f.auth.CreateUser(ctx, CreateUserRequest{
		Username: "hr_lead",
		Password: "other",
		Role:     model.RoleUser,
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate username err = %v, want ErrConflict", err)
	}

	if _, err := f.auth.CreateUser(ctx, CreateUserRequest{
		Username: "intern",
		Password: "pw",
		Role:     "SUPERADMIN", // legacy spelling is not a role
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad role err = %v, want ErrValidation", err)
	}
}

func TestUpdateAndDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", model.RoleUser)

	updated, err := f.auth.UpdateUser(ctx, "alice", UpdateUserRequest{Role: model.RoleProjectManager})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Role != model.RoleProjectManager {
		t.Errorf("role = %q, want PROJECTMANAGER", updated.Role)
	}

	if err := f.auth.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, _, err := f.auth.Login(ctx, LoginRequest{Username: "alice", Password: "secret"}); err == nil {
		t.Error("deleted user can still log in")
	}
}
