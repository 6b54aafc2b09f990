package handler

import (
	"reviflow/internal/domain"
	"reviflow/internal/logger"
	"reviflow/internal/middleware"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// currentUserID reads the user set by middleware.Protected.
func currentUserID(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		logger.Get().Warn("User ID not found in context", zap.String("path", c.Path()))
		return "", domain.NewUnauthorizedError("User ID not found in context")
	}
	return userID, nil
}

// bindAndValidate parses the request body into dst and checks its validate tags.
func bindAndValidate(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		logger.Get().Warn("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := v.Struct(dst); len(errs) > 0 {
		return errs
	}
	return nil
}
