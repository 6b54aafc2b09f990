package middleware

import (
	"context"
	"fmt"
	"strings"

	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer"
	UserIDKey           = "userID" // fiber.Ctx locals key

	accessTokenType = "access"
)

// TokenValidator parses and verifies a signed JWT.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected requires a valid access token and stores its user ID in the
// request locals. Refresh tokens are refused with 403.
func Protected(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return reject(c, fiber.StatusUnauthorized, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}

		scheme, token, _ := strings.Cut(authHeader, " ")
		if !strings.EqualFold(scheme, BearerSchema) {
			return reject(c, fiber.StatusUnauthorized, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return reject(c, fiber.StatusUnauthorized, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := tokens.ValidateJWT(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return reject(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
		}
		if claims.TokenType != accessTokenType {
			return reject(c, fiber.StatusForbidden, "INVALID_TOKEN_TYPE",
				fmt.Sprintf("Invalid token type: expected %s, got %s", accessTokenType, claims.TokenType))
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

func reject(c *fiber.Ctx, status int, code, message string) error {
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, BearerSchema)
	}
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: message, Status: status})
}

// UserID returns the authenticated user set by Protected.
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(UserIDKey).(string)
	return userID, ok && userID != ""
}
