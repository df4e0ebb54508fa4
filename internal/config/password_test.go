package config

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  bool
	}{
		{name: "defaults", wantCost: 12},
		{name: "explicit cost", cost: "10", wantCost: 10},
		{name: "pepper picked up", cost: "12", pepper: "s3cret", wantCost: 12},
		{name: "cost below range", cost: "9", wantErr: true},
		{name: "cost above range", cost: "15", wantErr: true},
		{name: "cost not a number", cost: "high", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewPasswordConfig() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPasswordConfig() error = %v", err)
			}
			if cfg.BcryptCost != tt.wantCost {
				t.Errorf("cost = %d, want %d", cfg.BcryptCost, tt.wantCost)
			}
			if cfg.Pepper != tt.pepper {
				t.Errorf("pepper = %q, want %q", cfg.Pepper, tt.pepper)
			}
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: bcrypt.MinCost}

	hash, err := cfg.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash = %q, want a bcrypt hash", hash)
	}
	if !cfg.VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if cfg.VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

// A hash minted with one pepper must not verify under another; otherwise
// the pepper adds nothing.
func TestPasswordConfig_PepperChangesTheHash(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper-a"}
	hash, err := peppered.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !peppered.VerifyPassword("pw", hash) {
		t.Error("same pepper rejected")
	}
	other := &PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper-b"}
	if other.VerifyPassword("pw", hash) {
		t.Error("different pepper accepted")
	}
	unpeppered := &PasswordConfig{BcryptCost: bcrypt.MinCost}
	if unpeppered.VerifyPassword("pw", hash) {
		t.Error("missing pepper accepted")
	}
}

func TestPasswordConfig_VerifyGarbageHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: bcrypt.MinCost}
	if cfg.VerifyPassword("pw", "not-a-bcrypt-hash") {
		t.Error("garbage hash accepted")
	}
}
