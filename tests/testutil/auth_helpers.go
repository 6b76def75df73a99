package testutil

import (
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
)

// TestJWTSecret signs the HS256 tokens used by the suites
const TestJWTSecret = "storefront-test-secret"

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID, issuer, role string) {
	c.Set("user_id", userID)
	c.Set("validated_claims", MockValidatedClaims(userID, issuer, role))
	c.Set("access_token", "mock-token")
}

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// MintToken signs an HS256 access token for subject with cfg's issuer and audience.
// A negative ttl yields an expired token.
func MintToken(t *testing.T, cfg *config.Config, subject, role string, ttl time.Duration) string {
	t.Helper()
	return MintTokenWithSecret(t, cfg, cfg.JWTSecret, subject, role, ttl)
}

// MintTokenWithSecret is MintToken with an explicit signing secret
func MintTokenWithSecret(t *testing.T, cfg *config.Config, secret, subject, role string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{cfg.JWTAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// BearerHeader formats an Authorization header value
func BearerHeader(token string) string {
	return "Bearer " + token
}
