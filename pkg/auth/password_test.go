package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordPolicy_Validate(t *testing.T) {
	policy := DefaultPasswordPolicy(8)

	tests := []struct {
		name          string
		password      string
		shouldFail    bool
		errorContains string
	}{
		{name: "valid password", password: "SecurePass123", shouldFail: false},
		{name: "too short", password: "Pa1", shouldFail: true, errorContains: "at least 8"},
		{name: "missing uppercase", password: "securepass123", shouldFail: true, errorContains: "uppercase"},
		{name: "missing lowercase", password: "SECUREPASS123", shouldFail: true, errorContains: "lowercase"},
		{name: "missing digit", password: "SecurePassword", shouldFail: true, errorContains: "digit"},
		{name: "common password rejected", password: "Password123", shouldFail: true, errorContains: "too common"},
		{name: "too long", password: "Aa1" + strings.Repeat("x", 80), shouldFail: true, errorContains: "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.password)
			if tt.shouldFail {
				if err == nil {
					t.Fatalf("expected error for %q", tt.password)
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorContains)
				}
				var pve *PasswordValidationError
				if !errors.As(err, &pve) {
					t.Errorf("expected *PasswordValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPasswordPolicy_RequireSpecial(t *testing.T) {
	policy := DefaultPasswordPolicy(8)
	policy.RequireSpecial = true

	if err := policy.Validate("SecurePass123"); err == nil {
		t.Error("expected special character requirement to fail")
	}
	if err := policy.Validate("SecurePass123!"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultPasswordPolicy_MinLengthFallback(t *testing.T) {
	if p := DefaultPasswordPolicy(0); p.MinLength != 8 {
		t.Errorf("MinLength = %d, want 8", p.MinLength)
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := ComparePassword(hash, "SecurePass123"); err != nil {
		t.Errorf("ComparePassword() with correct password = %v", err)
	}
	if err := ComparePassword(hash, "WrongPass123"); err == nil {
		t.Error("ComparePassword() with wrong password should fail")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("HashPassword(\"\") should fail")
	}
}

func TestGenerateTokenKey_Unique(t *testing.T) {
	a, err := GenerateTokenKey()
	if err != nil {
		t.Fatalf("GenerateTokenKey() error = %v", err)
	}
	b, _ := GenerateTokenKey()
	if a == b || a == "" {
		t.Error("token keys should be unique and non-empty")
	}
}
