package handler

import (
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Register creates a parent account.
// @Summary Register
// @Description Creates a parent account from an email and a password.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} middleware.ErrorResponse "REGISTER_USER_ALREADY_EXISTS or invalid input"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	logger.Get().Info("User registered", zap.String("userID", user.ID))
	return c.Status(fiber.StatusCreated).JSON(service.ToUserResponse(user))
}

// Login issues an access and a refresh token.
// @Summary Login
// @Description Accepts an email or a username, as JSON or as an OAuth2 password form.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "LOGIN_BAD_CREDENTIALS"
// @Router /auth/jwt/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// RefreshToken generates new access and refresh tokens using a valid refresh token.
// @Summary Refresh JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Refresh token missing"
// @Failure 401 {object} middleware.ErrorResponse "Refresh token invalid or expired"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		logger.Get().Warn("AuthService failed to refresh token", zap.Error(err))
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "bearer",
	})
}
