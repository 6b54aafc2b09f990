package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	defaultStreamTimeout = 5 * time.Minute
	msgAnalysisFailed    = "Erreur lors de l'analyse"
)

// IngestHandler turns photographed lesson pages into text.
type IngestHandler struct {
	service       service.IngestService
	validator     *validation.Validator
	streamTimeout time.Duration
}

func NewIngestHandler(service service.IngestService, validator *validation.Validator, streamTimeout time.Duration) *IngestHandler {
	if streamTimeout <= 0 {
		streamTimeout = defaultStreamTimeout
	}
	return &IngestHandler{service: service, validator: validator, streamTimeout: streamTimeout}
}

// Analyze godoc
// @Summary Analyze lesson images
// @Description Extracts title, subject, raw text, synthesis and study tips from base64 images.
// @Tags ingest
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.AnalyzeRequest true "Lesson pages"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing API key"
// @Failure 502 {object} middleware.ErrorResponse
// @Router /ingest/analyze [post]
func (h *IngestHandler) Analyze(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.AnalyzeRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.Analyze(c.UserContext(), userID, req, nil)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AnalyzeStream godoc
// @Summary Analyze lesson images with progress events
// @Description Same as /ingest/analyze, streamed as Server-Sent Events. Each event is
// @Description `data: {step, message, progress[, result]}`; failures end with step "error".
// @Tags ingest
// @Security ApiKeyAuth
// @Accept json
// @Produce text/event-stream
// @Param body body dto.AnalyzeRequest true "Lesson pages"
// @Success 200 {object} dto.IngestProgress
// @Failure 400 {object} middleware.ErrorResponse
// @Router /ingest/analyze-stream [post]
func (h *IngestHandler) AnalyzeStream(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.AnalyzeRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once the handler returns, so the writer
	// only captures plain values.
	timeout := h.streamTimeout
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		send := func(event dto.IngestProgress) {
			if err := writeEvent(w, event); err != nil {
				logger.Get().Info("SSE client disconnected", zap.String("userID", userID), zap.Error(err))
				cancel()
			}
		}

		if _, err := h.service.Analyze(ctx, userID, req, send); err != nil {
			logger.Get().Warn("Streaming analysis failed", zap.String("userID", userID), zap.Error(err))
			send(dto.IngestProgress{Step: dto.StepError, Message: streamErrorMessage(err), Progress: 0})
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event dto.IngestProgress) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func streamErrorMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return msgAnalysisFailed
}
