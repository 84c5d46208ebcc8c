package jwt

import "testing"

const testSecret = "test-secret"

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair("user-1", "user@example.com", "candidate", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	claims, err := ValidateAccessToken(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "user@example.com" || claims.Role != "candidate" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.JTI == "" {
		t.Error("access token missing JTI")
	}

	refreshClaims, err := ValidateRefreshToken(pair.RefreshToken, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if refreshClaims.UserID != "user-1" {
		t.Errorf("refresh claims user = %q, want user-1", refreshClaims.UserID)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair("user-1", "user@example.com", "candidate", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateAccessToken(pair.AccessToken, "other-secret"); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestExtractJTIWithoutValidation(t *testing.T) {
	pair, err := GenerateTokenPair("user-1", "user@example.com", "candidate", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	jti, err := ExtractJTI(pair.AccessToken)
	if err != nil {
		t.Fatalf("ExtractJTI: %v", err)
	}

	claims, err := ValidateAccessToken(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if jti != claims.JTI {
		t.Errorf("ExtractJTI = %q, want %q", jti, claims.JTI)
	}
}
