package services

import (
	"errors"
	"testing"

	"github.com/skillforge/backend/internal/pkg/apperrors"
)

func TestValidateEmail(t *testing.T) {
	svc := &AuthService{}

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "student@skillforge.io", false},
		{"valid with plus tag", "a.user+exams@example.co", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing domain", "student@", true},
		{"missing local part", "@example.com", true},
		{"no at sign", "student.example.com", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.validateEmail(tc.email)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("err = %v, want ErrValidationFailed", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	svc := &AuthService{}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"letters and digits", "changeme123", false},
		{"too short", "ab12", true},
		{"letters only", "onlyletters", true},
		{"digits only", "123456789", true},
		{"exactly eight mixed", "abcd1234", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.validatePassword(tc.password)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("err = %v, want ErrValidationFailed", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
