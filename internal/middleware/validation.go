package middleware

import (
	"reviflow/internal/domain"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware rejects malformed IDs before they reach a handler.
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidatePathID requires a well-formed ID in each named path parameter.
func (vm *ValidationMiddleware) ValidatePathID(params ...string) fiber.Handler {
	return vm.checkIDs(params, true, func(c *fiber.Ctx, p string) string { return c.Params(p) })
}

// ValidateQueryIDs checks optional ID query parameters such as learner_id.
func (vm *ValidationMiddleware) ValidateQueryIDs(params ...string) fiber.Handler {
	return vm.checkIDs(params, false, func(c *fiber.Ctx, p string) string { return c.Query(p) })
}

func (vm *ValidationMiddleware) checkIDs(params []string, required bool, value func(*fiber.Ctx, string) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, p := range params {
			errs = append(errs, vm.validator.ValidateID(p, value(c, p), required)...)
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}
