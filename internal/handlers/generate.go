package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"slideforge/internal/logging"
	"slideforge/internal/models"
	"slideforge/internal/pipeline"
	"slideforge/internal/services"
)

// GenerateHandler handles presentation generation requests
type GenerateHandler struct {
	engine  *pipeline.Engine
	metrics *services.Metrics
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(engine *pipeline.Engine, metrics *services.Metrics) *GenerateHandler {
	return &GenerateHandler{engine: engine, metrics: metrics}
}

// Generate runs the full pipeline for one request
// POST /generate_ppt
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req models.PresentationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body: expected JSON",
		})
	}

	requestID := uuid.NewString()
	startTime := time.Now()
	reqLog := logging.WithRequest(requestID, req.Topic, req.NumSlides)
	if h.metrics != nil {
		h.metrics.GenerationRequests.Inc()
	}

	outcome, failure := h.engine.Run(c.Context(), req)
	if failure != nil {
		if h.metrics != nil {
			h.metrics.GenerationErrors.WithLabelValues(errorType(failure)).Inc()
		}
		reqLog.Error("generation failed", "state", string(failure.State), "reason", failure.Reason)

		status := fiber.StatusInternalServerError
		if failure.ClientError {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"detail": "Error generating presentation: " + failure.Reason,
		})
	}

	if h.metrics != nil {
		h.metrics.GenerationDuration.Observe(time.Since(startTime).Seconds())
		h.metrics.SlidesGenerated.Add(float64(len(outcome.Slides)))
	}

	reqLog.Info("presentation generated",
		"file", outcome.Filename,
		"slides", len(outcome.Slides),
		"duration", time.Since(startTime).String())

	return c.JSON(fiber.Map{
		"message": "Presentation created successfully",
		"file":    outcome.Filename,
	})
}

func errorType(f *pipeline.Failure) string {
	switch {
	case f.ClientError:
		return "client_input"
	case f.State == pipeline.StateTitlesRequested || f.State == pipeline.StateTitlesValidated:
		return "titles"
	case f.State == pipeline.StateBodiesRequested || f.State == pipeline.StateBodiesValidated:
		return "bodies"
	default:
		return "artifact"
	}
}
