package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/utils"
	"gorm.io/gorm"
)

const (
	contextUserID      = "user_id"
	contextClaims      = "validated_claims"
	contextAccessToken = "access_token"
	contextCurrentUser = "current_user"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate only checks that a role, when present, is one we know.
func (c CustomClaims) Validate(ctx context.Context) error {
	if c.Role != "" && !models.IsValidRole(c.Role) {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// NewValidator builds the JWT validator: RS256 against the Auth0 JWKS when
// AUTH0_DOMAIN is set, HS256 with JWT_SECRET otherwise.
func NewValidator(cfg *config.Config) (*validator.Validator, error) {
	customClaims := validator.WithCustomClaims(func() validator.CustomClaims {
		return &CustomClaims{}
	})
	skew := validator.WithAllowedClockSkew(time.Minute)

	if cfg.Auth0Domain != "" {
		issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
		}
		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
		return validator.New(
			provider.KeyFunc,
			validator.RS256,
			issuerURL.String(),
			[]string{cfg.Auth0Audience},
			customClaims,
			skew,
		)
	}

	if cfg.JWTSecret != "" {
		secret := []byte(cfg.JWTSecret)
		return validator.New(
			func(context.Context) (interface{}, error) { return secret, nil },
			validator.HS256,
			cfg.JWTIssuer,
			[]string{cfg.JWTAudience},
			customClaims,
			skew,
		)
	}

	return nil, errors.New("neither AUTH0_DOMAIN nor JWT_SECRET is set")
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	return newTokenMiddleware(cfg, false)
}

// OptionalToken validates a bearer token when one is sent and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalToken(cfg *config.Config) gin.HandlerFunc {
	return newTokenMiddleware(cfg, true)
}

func newTokenMiddleware(cfg *config.Config, optional bool) gin.HandlerFunc {
	jwtValidator, err := NewValidator(cfg)
	if err != nil {
		log.Printf("Authentication disabled: %v", err)
		return func(c *gin.Context) {
			if optional && c.GetHeader("Authorization") == "" {
				c.Next()
				return
			}
			utils.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is not configured")
		}
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		code, message := "INVALID_TOKEN", "Failed to validate JWT."
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "UNAUTHORIZED", "Authentication required"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		body := fmt.Sprintf(`{"ok":false,"code":%q,"message":%q}`, code, message)
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(optional),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r

			// Anonymous request on an optional route
			token, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return
			}

			c.Set(contextUserID, token.RegisteredClaims.Subject)
			c.Set(contextClaims, token)
			if raw, err := jwtmiddleware.AuthHeaderTokenExtractor(r); err == nil {
				c.Set(contextAccessToken, raw)
			}
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin loads the caller's user row and requires role=admin.
// Must run after EnsureValidToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := LoadCurrentUser(c, config.GetDB())
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				utils.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
				return
			}
			log.Printf("Failed to load admin user: %v", err)
			utils.AbortWithError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user")
			return
		}

		if !user.IsAdmin() {
			utils.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		c.Next()
	}
}

// LoadCurrentUser returns the user row of the authenticated caller, caching
// it on the context. It returns an *AuthError for anonymous requests and
// gorm.ErrRecordNotFound when the caller has no profile yet.
func LoadCurrentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	if cached, ok := c.Get(contextCurrentUser); ok {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}

	auth0ID, err := GetUserID(c)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		return nil, err
	}

	c.Set(contextCurrentUser, &user)
	return &user, nil
}

// IsAuthenticated reports whether a validated token was attached to the request
func IsAuthenticated(c *gin.Context) bool {
	_, err := GetUserID(c)
	return err == nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetAccessToken returns the raw bearer token of the request
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get(contextAccessToken)
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Access token is not a string"}
	}

	return tokenStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(contextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetRole returns the role claim of the token, or "" when absent
func GetRole(c *gin.Context) string {
	claims, err := GetClaims(c)
	if err != nil {
		return ""
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom.Role
	}
	return ""
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
