package config

import "testing"

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		hours     string
		wantHours int
		wantErr   bool
	}{
		{name: "defaults", secret: "a-long-enough-signing-secret", wantHours: 24},
		{name: "explicit expiration", secret: "a-long-enough-signing-secret", hours: "72", wantHours: 72},
		{name: "missing secret", wantErr: true},
		{name: "zero hours", secret: "s", hours: "0", wantErr: true},
		{name: "negative hours", secret: "s", hours: "-1", wantErr: true},
		{name: "hours not a number", secret: "s", hours: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.hours)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewJWTConfig() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewJWTConfig() error = %v", err)
			}
			if cfg.Secret != tt.secret {
				t.Errorf("secret = %q, want %q", cfg.Secret, tt.secret)
			}
			if cfg.ExpirationHours != tt.wantHours {
				t.Errorf("expirationHours = %d, want %d", cfg.ExpirationHours, tt.wantHours)
			}
		})
	}
}
