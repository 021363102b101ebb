package auth

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "securePassword123"

	hash, err := HashPassword(password, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash == "" {
		t.Error("expected non-empty hash")
	}

	if hash == password {
		t.Error("hash should not equal plaintext password")
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	password := "securePassword123"

	hash1, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash2, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("same password should produce different hashes due to salt")
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	password := "securePassword123"

	hash, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := CheckPassword(hash, password); err != nil {
		t.Errorf("expected correct password to match, got error: %v", err)
	}
}

func TestCheckPassword_Incorrect(t *testing.T) {
	hash, err := HashPassword("securePassword123", 4)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := CheckPassword(hash, "wrongPassword456"); err == nil {
		t.Error("expected error for incorrect password")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if err := CheckPassword("not-a-valid-bcrypt-hash", "password"); err == nil {
		t.Error("expected error for invalid hash format")
	}
}
