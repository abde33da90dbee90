package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPasswordHash("pw123", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestCheckPasswordHashRejectsGarbageHash(t *testing.T) {
	if CheckPasswordHash("pw123", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to fail verification")
	}
}
