package handlers

import (
	"fmt"

	"asistente-fincas/internal/dto"
	"asistente-fincas/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PreguntaHandler struct {
	answerService *service.AnswerService
	logger        *zap.Logger
}

func NewPreguntaHandler(answerService *service.AnswerService, logger *zap.Logger) *PreguntaHandler {
	return &PreguntaHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// Ask resolves a question through the retrieval-and-answer pipeline. The
// service never fails; the response always carries a usable string.
func (h *PreguntaHandler) Ask(c *fiber.Ctx) error {
	var req dto.PreguntaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := ""
	if id := c.Locals("userID"); id != nil {
		userID = fmt.Sprint(id)
	}

	respuesta := h.answerService.Answer(c.Context(), req.Pregunta, userID)
	return c.JSON(dto.PreguntaResponse{Respuesta: respuesta})
}
