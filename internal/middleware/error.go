package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"reviflow/internal/domain"
	"reviflow/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists the rejected request fields.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeRevisionNotFound: http.StatusNotFound,
	domain.CodeInvalidInput:     http.StatusBadRequest,
	domain.CodeConflict:         http.StatusBadRequest,
	domain.CodeValidation:       http.StatusBadRequest,
	domain.CodeMissingField:     http.StatusBadRequest,
	domain.CodeInvalidFormat:    http.StatusBadRequest,
	domain.CodeOutOfRange:       http.StatusBadRequest,
	domain.CodeUnauthorized:     http.StatusUnauthorized,
	domain.CodeMissingAPIKey:    http.StatusUnauthorized,
	domain.CodeForbidden:        http.StatusForbidden,
	domain.CodeTooManyTries:     http.StatusTooManyRequests,
	domain.CodeLLMBadResponse:   http.StatusBadGateway,
	domain.CodeLLMServiceError:  http.StatusServiceUnavailable,
}

// fiberErrorCodes names the framework errors clients can act on.
var fiberErrorCodes = map[int]string{
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	fiber.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	fiber.StatusRequestTimeout:        "REQUEST_TIMEOUT",
}

// ErrorHandler renders errors returned by handlers and middleware.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			return writeValidationErrors(c, validationErrs)
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return writeDomainError(c, domainErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code, ok := fiberErrorCodes[fiberErr.Code]
			if !ok {
				code = "HTTP_ERROR"
			}
			logger.Get().Warn("Request failed in router",
				zap.String("path", c.Path()),
				zap.Int("status", fiberErr.Code),
				zap.String("message", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Code: code, Message: fiberErr.Message, Status: fiberErr.Code})
		}

		logger.Get().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func writeValidationErrors(c *fiber.Ctx, errs domain.ValidationErrors) error {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	logger.Get().Info("Request validation failed", zap.String("path", c.Path()), zap.Strings("fields", fields))

	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(domain.CodeValidation),
		Message: "Request validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func writeDomainError(c *fiber.Ctx, domainErr *domain.DomainError) error {
	status := statusForDomainError(domainErr)

	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", string(domainErr.Code)),
		zap.String("message", domainErr.Message),
		zap.Int("status", status),
	}
	if domainErr.Cause != nil {
		fields = append(fields, zap.Error(domainErr.Cause))
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error("Request failed", fields...)
	} else {
		logger.Get().Info("Request rejected", fields...)
	}

	if retry, ok := domainErr.Context["retry_after_seconds"]; ok && status == http.StatusTooManyRequests {
		c.Set(fiber.HeaderRetryAfter, fmt.Sprint(retry))
	}

	resp := ErrorResponse{Code: string(domainErr.Code), Message: domainErr.Message, Status: status}
	if len(domainErr.Context) > 0 {
		resp.Details = domainErr.Context
	}
	return c.Status(status).JSON(resp)
}

func statusForDomainError(err *domain.DomainError) int {
	if status, ok := statusByCode[err.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
