package handler

import (
	"cognitive-profiler/internal/dto"
	"cognitive-profiler/internal/logger"
	"cognitive-profiler/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GetCategories godoc
// @Summary Get quiz categories
// @Description Returns every skill category that has at least one question
// @Tags categories
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *QuizHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.GetCategories())
}

// StartTest godoc
// @Summary Start a test
// @Description Assembles a randomized quiz from the requested category ids
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.StartTestRequest true "Requested category ids"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /start-test [post]
func (h *QuizHandler) StartTest(c *fiber.Ctx) error {
	var req dto.StartTestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse start-test request", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	quiz, err := h.service.StartTest(&req)
	if err != nil {
		return err
	}

	return c.JSON(quiz)
}

// SubmitTest godoc
// @Summary Submit test answers
// @Description Grades the submitted answers and returns results with an AI-generated analysis
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitTestRequest true "Submitted answers"
// @Success 200 {object} dto.SubmitTestResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /submit-test [post]
func (h *QuizHandler) SubmitTest(c *fiber.Ctx) error {
	var req dto.SubmitTestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse submit-test request", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.service.SubmitTest(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
