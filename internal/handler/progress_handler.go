package handler

import (
	"reviflow/internal/dto"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProgressHandler serves scores, remediation and learner statistics.
type ProgressHandler struct {
	service   service.ProgressService
	validator *validation.Validator
}

func NewProgressHandler(service service.ProgressService, validator *validation.Validator) *ProgressHandler {
	return &ProgressHandler{service: service, validator: validator}
}

// SubmitScore godoc
// @Summary Submit a quiz score
// @Description Records the score, updates streak, XP, level and badges, and queues wrong answers for remediation.
// @Tags progress
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.ScoreRequest true "Score"
// @Success 200 {object} dto.ScoreResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quiz/score [post]
func (h *ProgressHandler) SubmitScore(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.ScoreRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.SubmitScore(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// History godoc
// @Summary Score history
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id query string false "Learner profile ID"
// @Success 200 {array} dto.ScoreHistoryItem
// @Router /quiz/history [get]
func (h *ProgressHandler) History(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	items, err := h.service.History(c.UserContext(), userID, c.Query("learner_id"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// RemediationCount godoc
// @Summary Count pending mistakes
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id query string false "Learner profile ID"
// @Param revision_id query string false "Restrict to one revision"
// @Success 200 {object} dto.RemediationCountResponse
// @Router /quiz/remediation/count [get]
func (h *ProgressHandler) RemediationCount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.service.RemediationCount(c.UserContext(), userID, c.Query("learner_id"), c.Query("revision_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateRemediation godoc
// @Summary Generate a remediation quiz
// @Description One question per pending mistake, at most 20.
// @Tags progress
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.RemediationRequest true "Scope"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse "Not enough errors to generate a quiz."
// @Router /quiz/remediation/generate [post]
func (h *ProgressHandler) GenerateRemediation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.RemediationRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}
	quiz, err := h.service.GenerateRemediation(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// Mastery godoc
// @Summary Topic mastery
// @Tags stats
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id query string false "Learner profile ID"
// @Success 200 {array} domain.TopicMastery
// @Router /quiz/stats/mastery [get]
func (h *ProgressHandler) Mastery(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	topics, err := h.service.Mastery(c.UserContext(), userID, c.Query("learner_id"))
	if err != nil {
		return err
	}
	return c.JSON(topics)
}

// Activity godoc
// @Summary Learning activity
// @Description Estimated minutes per day and totals.
// @Tags stats
// @Security ApiKeyAuth
// @Produce json
// @Param learner_id query string false "Learner profile ID"
// @Success 200 {object} domain.ActivityReport
// @Router /quiz/stats/activity [get]
func (h *ProgressHandler) Activity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	report, err := h.service.Activity(c.UserContext(), userID, c.Query("learner_id"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}
