package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/achievepack/internal/config"
	"github.com/example/achievepack/internal/utils"
)

const (
	userContextKey    = "currentUserID"
	sessionContextKey = "cartSessionID"
)

// AuthMiddleware validates JWT tokens and loads the authenticated user ID
// into context. Requests without a valid token are rejected.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDFromHeader(c, cfg)
		if err != nil {
			return err
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// OptionalAuthMiddleware loads the user ID when a valid token is present
// but lets anonymous requests through. Used on the cart and RFQ surfaces,
// which accept anonymous visitors.
func OptionalAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := userIDFromHeader(c, cfg); err == nil {
			c.Locals(userContextKey, userID)
		}
		return c.Next()
	}
}

// SessionMiddleware requires the opaque cart session ID the storefront
// sends with every cart-related request.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get("X-Session-ID"))
		if sessionID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing X-Session-ID header")
		}

		c.Locals(sessionContextKey, sessionID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetSessionID extracts the cart session ID from context.
func GetSessionID(c *fiber.Ctx) (string, bool) {
	value := c.Locals(sessionContextKey)
	if value == nil {
		return "", false
	}

	if id, ok := value.(string); ok && id != "" {
		return id, true
	}

	return "", false
}

func userIDFromHeader(c *fiber.Ctx, cfg *config.Config) (uuid.UUID, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	userID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	return userID, nil
}
