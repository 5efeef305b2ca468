package utils

import (
	"strings"
	"testing"
)

func TestPasswordHashingRoundTrip(t *testing.T) {
	hash, err := HashPassword("travel-content-2026")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword("travel-content-2026", hash) {
		t.Fatal("expected the original password to verify")
	}
	if CheckPassword("travel-content-2027", hash) {
		t.Fatal("expected a different password to fail verification")
	}

	second, err := HashPassword("travel-content-2026")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if second == hash {
		t.Fatal("expected salted hashes to differ between calls")
	}
}

func TestTokenCarriesIdentityClaims(t *testing.T) {
	secret := "marketplace-secret"

	cases := []struct {
		userID string
		role   string
	}{
		{"7", "creator"},
		{"42", "brand"},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			token, err := GenerateToken(tc.userID, tc.role, secret)
			if err != nil {
				t.Fatalf("GenerateToken: %v", err)
			}

			claims, err := ValidateToken(token, secret)
			if err != nil {
				t.Fatalf("ValidateToken: %v", err)
			}
			if claims.UserID != tc.userID || claims.Role != tc.role {
				t.Fatalf("expected claims {%s %s}, got {%s %s}", tc.userID, tc.role, claims.UserID, claims.Role)
			}
		})
	}
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	token, err := GenerateToken("7", "creator", "marketplace-secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token, "another-secret"); err == nil {
		t.Fatal("expected validation to fail under a different secret")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	secret := "marketplace-secret"
	token, err := GenerateToken("7", "creator", secret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %d parts", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ValidateToken(tampered, secret); err == nil {
		t.Fatal("expected a tampered payload to fail validation")
	}
}
