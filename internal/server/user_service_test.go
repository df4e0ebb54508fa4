package server

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmorgan/ikigai-copilot/internal/config"
	"github.com/jmorgan/ikigai-copilot/internal/db"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

type fakeUserStore struct {
	users     map[string]*db.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*db.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, email, passwordHash string) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := uuid.New()
	f.users[email] = &db.User{ID: id, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return f.users[email], nil
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
}

func TestUserServiceRegister(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, testPasswordConfig())

	user, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "dev@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "dev@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
	if user.ID == uuid.Nil {
		t.Error("ID not assigned")
	}

	stored := store.users["dev@example.com"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "long-enough-password" {
		t.Error("password stored in the clear")
	}
}

func TestUserServiceRegister_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, testPasswordConfig())

	req := &types.RegisterRequest{Email: "dev@example.com", Password: "long-enough-password"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	var dup *ErrEmailAlreadyExists
	if !errors.As(err, &dup) {
		t.Fatalf("second Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestUserServiceLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, testPasswordConfig())

	if _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "dev@example.com",
		Password: "long-enough-password",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "dev@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Email != "dev@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
}

func TestUserServiceLogin_WrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, testPasswordConfig())

	if _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "dev@example.com",
		Password: "long-enough-password",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "dev@example.com",
		Password: "not-the-password",
	})
	var bad *ErrInvalidCredentials
	if !errors.As(err, &bad) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserServiceLogin_UnknownEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), testPasswordConfig())

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	var bad *ErrInvalidCredentials
	if !errors.As(err, &bad) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}
