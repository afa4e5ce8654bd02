package utils

import (
	"errors"
	"testing"

	"availability-service/core/config"
	"availability-service/core/constants"
)

func testConfig(expiryMinutes int) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryMinutes: expiryMinutes},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	config.SetForTesting(testConfig(60))

	token, err := GenerateToken("management-api", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	claims, err := ValidateAndParseToken(token)
	if err != nil {
		t.Fatalf("ValidateAndParseToken: %v", err)
	}
	if claims.ClientName != "management-api" {
		t.Errorf("ClientName = %q, want management-api", claims.ClientName)
	}
	if claims.Scope != constants.ScopeTokenAccess {
		t.Errorf("Scope = %q, want %q", claims.Scope, constants.ScopeTokenAccess)
	}
	if claims.Subject != "management-api" {
		t.Errorf("Subject = %q, want management-api", claims.Subject)
	}
}

func TestTokenExpired(t *testing.T) {
	config.SetForTesting(testConfig(-1))
	token, err := GenerateToken("management-api", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	config.SetForTesting(testConfig(60))
	if _, err := ValidateAndParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	config.SetForTesting(testConfig(60))
	token, err := GenerateToken("management-api", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	config.SetForTesting(&config.Config{JWT: config.JWTConfig{Secret: "other-secret", ExpiryMinutes: 60}})
	if _, err := ValidateAndParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	config.SetForTesting(testConfig(60))
	if _, err := ValidateAndParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
