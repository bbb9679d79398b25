package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrInvalidAudience = errors.New("token audience does not match")
)

// TokenValidator validates a raw bearer token. *utils.JwtAuthenticator
// satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*utils.AuthenticatedUser, error)
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// Authenticator validates the bearer token
	Authenticator TokenValidator
	// Audience is the expected aud claim. Empty disables the check.
	Audience string
	// ResourceMetadataURL is advertised in the 401 challenge so OAuth clients
	// can discover the authorization server.
	ResourceMetadataURL string
}

// AuthMiddleware returns a Fiber middleware for Bearer token authentication.
// The authenticated user is stored in Locals("user") and in the user context.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c.Get(fiber.HeaderAuthorization))
		user, err := Authenticate(cfg.Authenticator, cfg.Audience, token)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, challenge(cfg.ResourceMetadataURL))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		c.Locals("user", user)
		c.SetUserContext(utils.WithAuthenticatedUser(c.UserContext(), user))
		return c.Next()
	}
}

func challenge(resourceMetadataURL string) string {
	if resourceMetadataURL == "" {
		return `Bearer realm="Access to protected resource"`
	}
	return fmt.Sprintf(`Bearer realm="OAuth", resource_metadata="%s"`, resourceMetadataURL)
}

// Authenticate validates token and checks the audience.
func Authenticate(validator TokenValidator, audience string, token string) (*utils.AuthenticatedUser, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if validator == nil {
		return nil, errors.New("no token validator configured")
	}

	user, err := validator.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if audience != "" {
		for _, aud := range user.Aud {
			if aud == audience {
				return user, nil
			}
		}
		return nil, ErrInvalidAudience
	}
	return user, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// GetAuthenticatedUser retrieves the authenticated user from Fiber context
// Returns nil if no user is found or if user is not of correct type
func GetAuthenticatedUser(c *fiber.Ctx) *utils.AuthenticatedUser {
	user, ok := c.Locals("user").(*utils.AuthenticatedUser)
	if !ok {
		return nil
	}
	return user
}
