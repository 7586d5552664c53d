package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(42, "user@example.com", RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if claims.Role != RoleCustomer {
		t.Errorf("Role = %s, want %s", claims.Role, RoleCustomer)
	}
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(1, "admin@example.com", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateJWT(token + "x"); err == nil {
		t.Error("tampered token validated")
	}

	SetJWTSecret("other-secret")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
	SetJWTSecret("test-secret")
}
