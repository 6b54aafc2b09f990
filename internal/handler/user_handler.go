package handler

import (
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves the account, family and parental settings endpoints.
type UserHandler struct {
	userService   service.UserService
	apiKeyService service.APIKeyService
	validator     *validation.Validator
}

func NewUserHandler(userService service.UserService, apiKeyService service.APIKeyService, validator *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, apiKeyService: apiKeyService, validator: validator}
}

// GetMe retrieves the account of the currently authenticated user.
// @Summary Get current user
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /auth/users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetMe(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateMe patches the current account.
// @Summary Update current user
// @Description An empty openrouter_api_key clears the stored key. Role and parent cannot be changed.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /auth/users/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateMe(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	logger.Get().Info("User updated", zap.String("userID", userID))
	return c.JSON(user)
}

// ValidateAPIKey checks the effective OpenRouter key of the current user.
// @Summary Validate API key
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.APIKeyValidationResponse
// @Router /auth/validate-api-key [get]
func (h *UserHandler) ValidateAPIKey(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.apiKeyService.ValidateAPIKey(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// VerifyParentalGate unlocks the parental settings.
// @Summary Verify parental gate
// @Description Checks the parental PIN, or the account password when no PIN is given.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.ParentalGateRequest true "PIN or password"
// @Success 200 {object} dto.ParentalGateResponse
// @Failure 400 {object} middleware.ErrorResponse "PIN or Password required"
// @Failure 429 {object} middleware.ErrorResponse "Too many failed attempts"
// @Router /auth/verify-parental-gate [post]
func (h *UserHandler) VerifyParentalGate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.ParentalGateRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.userService.VerifyParentalGate(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListChildren lists the learner accounts of the calling parent.
// @Summary List children
// @Tags family
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /auth/children [get]
func (h *UserHandler) ListChildren(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	children, err := h.userService.ListChildren(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(children)
}

// CreateChild creates a learner account under the calling parent.
// @Summary Create child
// @Tags family
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateChildRequest true "Child account"
// @Success 200 {object} dto.CreateChildResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse "Only parents can create child accounts"
// @Router /auth/children [post]
func (h *UserHandler) CreateChild(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateChildRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.userService.CreateChild(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListProfiles lists the learner profiles visible to the caller.
// @Summary List learner profiles
// @Tags family
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.LearnerProfileResponse
// @Router /auth/profiles [get]
func (h *UserHandler) ListProfiles(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	profiles, err := h.userService.ListProfiles(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profiles)
}

// UpdateMyProfile lets a learner change their first name and avatar.
// @Summary Update own learner profile
// @Tags family
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.LearnerProfileResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /auth/profiles/me [patch]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	profile, err := h.userService.UpdateMyProfile(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// SelectProfile confirms the caller may act as the given learner.
// @Summary Select learner profile
// @Tags family
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id path string true "Learner profile ID"
// @Success 200 {object} dto.SelectProfileResponse
// @Failure 404 {object} middleware.ErrorResponse "Profile not found or access denied"
// @Router /auth/select-profile/{learner_id} [post]
func (h *UserHandler) SelectProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.userService.SelectProfile(c.UserContext(), userID, c.Params("learner_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
