package handler

import (
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles revision and quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// Generate godoc
// @Summary Generate a quiz
// @Description Creates a revision from lesson text and returns its first quiz series.
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.GenerateQuizRequest true "Lesson"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing API key"
// @Failure 502 {object} middleware.ErrorResponse "Failed to parse AI response"
// @Router /quiz/generate [post]
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.GenerateQuizRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	quiz, err := h.service.Generate(c.UserContext(), userID, req)
	if err != nil {
		logger.Get().Error("Failed to generate quiz", zap.String("userID", userID), zap.Error(err))
		return err
	}
	return c.JSON(quiz)
}

// SaveProgress godoc
// @Summary Save quiz progress
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SaveProgressRequest true "Progress"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/progress/save [post]
func (h *QuizHandler) SaveProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.SaveProgressRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.SaveProgress(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// NextSeries godoc
// @Summary Generate the next quiz series
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.RevisionActionRequest true "Revision"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse "Already at the last series."
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/next-series [post]
func (h *QuizHandler) NextSeries(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.RevisionActionRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	quiz, err := h.service.NextSeries(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// Reset godoc
// @Summary Restart a revision from the first series
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.RevisionActionRequest true "Revision"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/reset [post]
func (h *QuizHandler) Reset(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.RevisionActionRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	quiz, err := h.service.Reset(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// Review godoc
// @Summary Get a revision
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param revision_id path string true "Revision ID"
// @Success 200 {object} dto.RevisionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/review/{revision_id} [get]
func (h *QuizHandler) Review(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	rev, err := h.service.Review(c.UserContext(), userID, c.Params("revision_id"))
	if err != nil {
		return err
	}
	return c.JSON(rev)
}

// ListRevisions godoc
// @Summary List revisions
// @Description Newest first, each with its pending error count.
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id query string false "Learner profile ID"
// @Success 200 {array} dto.RevisionResponse
// @Router /quiz/revisions [get]
func (h *QuizHandler) ListRevisions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	revs, err := h.service.ListRevisions(c.UserContext(), userID, c.Query("learner_id"))
	if err != nil {
		return err
	}
	return c.JSON(revs)
}

// DeleteRevision godoc
// @Summary Delete a revision
// @Description Removes the revision with its scores and remediation items.
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param revision_id path string true "Revision ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/revision/{revision_id} [delete]
func (h *QuizHandler) DeleteRevision(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.service.DeleteRevision(c.UserContext(), userID, c.Params("revision_id"))
	if err != nil {
		return err
	}
	logger.Get().Info("Revision deleted", zap.String("userID", userID), zap.String("revisionID", resp.DeletedID))
	return c.JSON(resp)
}
