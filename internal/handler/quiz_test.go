package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"cognitive-profiler/internal/config"
	"cognitive-profiler/internal/domain"
	"cognitive-profiler/internal/dto"
	"cognitive-profiler/internal/handler"
	"cognitive-profiler/internal/logger"
	"cognitive-profiler/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info", Env: "development"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	os.Exit(m.Run())
}

// --- Manual Mocks ---

type MockQuizService struct {
	GetCategoriesFunc func() []dto.CategoryResponse
	StartTestFunc     func(req *dto.StartTestRequest) (*dto.QuizResponse, error)
	SubmitTestFunc    func(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)
}

func (m *MockQuizService) GetCategories() []dto.CategoryResponse {
	if m.GetCategoriesFunc != nil {
		return m.GetCategoriesFunc()
	}
	panic("MockQuizService.GetCategoriesFunc not implemented")
}

func (m *MockQuizService) StartTest(req *dto.StartTestRequest) (*dto.QuizResponse, error) {
	if m.StartTestFunc != nil {
		return m.StartTestFunc(req)
	}
	panic("MockQuizService.StartTestFunc not implemented")
}

func (m *MockQuizService) SubmitTest(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	if m.SubmitTestFunc != nil {
		return m.SubmitTestFunc(ctx, req)
	}
	panic("MockQuizService.SubmitTestFunc not implemented")
}

func newTestApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewQuizHandler(svc)
	app.Get("/health", h.Health)
	app.Get("/categories", h.GetCategories)
	app.Post("/start-test", h.StartTest)
	app.Post("/submit-test", h.SubmitTest)
	return app
}

func decodeErrorResponse(t *testing.T, body io.Reader) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestGetCategories(t *testing.T) {
	app := newTestApp(&MockQuizService{
		GetCategoriesFunc: func() []dto.CategoryResponse {
			return []dto.CategoryResponse{
				{ID: "memory", Title: "Memory", Description: "Recalling information accurately.", Icon: "brain"},
			}
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/categories", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var categories []dto.CategoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "memory", categories[0].ID)
}

func TestStartTest_Success(t *testing.T) {
	app := newTestApp(&MockQuizService{
		StartTestFunc: func(req *dto.StartTestRequest) (*dto.QuizResponse, error) {
			assert.Equal(t, []string{"memory"}, req.Categories)
			return &dto.QuizResponse{
				Questions: []dto.QuestionResponse{
					{ID: 1, Category: "Memory", QuestionText: "Q1", Options: []string{"a", "b"}},
				},
				TimeLimitSeconds: 900,
			}, nil
		},
	})

	req := httptest.NewRequest("POST", "/start-test", bytes.NewBufferString(`{"categories": ["memory"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var quiz dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &quiz))
	assert.Equal(t, 900, quiz.TimeLimitSeconds)
	require.Len(t, quiz.Questions, 1)

	// The correct answer must never travel to the client.
	assert.False(t, strings.Contains(string(body), "correctAnswerIndex"))
}

func TestStartTest_InvalidCategory(t *testing.T) {
	app := newTestApp(&MockQuizService{
		StartTestFunc: func(req *dto.StartTestRequest) (*dto.QuizResponse, error) {
			return nil, domain.NewInvalidCategoryError("telekinesis")
		},
	})

	req := httptest.NewRequest("POST", "/start-test", bytes.NewBufferString(`{"categories": ["telekinesis"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	errResp := decodeErrorResponse(t, resp.Body)
	assert.Equal(t, string(domain.CodeInvalidCategory), errResp.Code)
}

func TestStartTest_MalformedBody(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	req := httptest.NewRequest("POST", "/start-test", bytes.NewBufferString(`{"categories": `))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitTest_Success(t *testing.T) {
	app := newTestApp(&MockQuizService{
		SubmitTestFunc: func(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
			require.Len(t, req.Answers, 2)
			return &dto.SubmitTestResponse{
				Results: dto.TestResultsResponse{
					TotalCorrect:   1,
					TotalQuestions: 2,
					CategoryResults: map[string]dto.CategoryResultResponse{
						"Memory":       {Correct: 1, Total: 1},
						"Verbal Logic": {Correct: 0, Total: 1},
					},
				},
				Analysis: dto.AnalysisResponse{
					Title:             "Your Profile Analysis",
					OverallSummary:    "summary",
					StrengthsAnalysis: "strengths",
					GrowthAnalysis:    "growth",
					ActionItem:        "action",
				},
			}, nil
		},
	})

	req := httptest.NewRequest("POST", "/submit-test",
		bytes.NewBufferString(`{"answers": [{"questionId": 1, "selectedOption": 2}, {"questionId": 2, "selectedOption": 1}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.SubmitTestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Results.TotalCorrect)
	assert.Equal(t, 2, result.Results.TotalQuestions)
	assert.Equal(t, "Your Profile Analysis", result.Analysis.Title)
}

func TestSubmitTest_EmptyAnswersIsClientError(t *testing.T) {
	app := newTestApp(&MockQuizService{
		SubmitTestFunc: func(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
			return nil, domain.NewNoAnswersError()
		},
	})

	req := httptest.NewRequest("POST", "/submit-test", bytes.NewBufferString(`{"answers": []}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	errResp := decodeErrorResponse(t, resp.Body)
	assert.Equal(t, string(domain.CodeNoAnswers), errResp.Code)
}

func TestSubmitTest_AnalysisUnavailable(t *testing.T) {
	app := newTestApp(&MockQuizService{
		SubmitTestFunc: func(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
			return nil, domain.NewAnalysisUnavailableError(assert.AnError)
		},
	})

	req := httptest.NewRequest("POST", "/submit-test",
		bytes.NewBufferString(`{"answers": [{"questionId": 1, "selectedOption": 0}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	errResp := decodeErrorResponse(t, resp.Body)
	assert.Equal(t, string(domain.CodeAnalysisUnavailable), errResp.Code)
	// The generic message leaks nothing about the underlying cause.
	assert.NotContains(t, errResp.Message, assert.AnError.Error())
}

func TestSubmitTest_MissingAnswerKeyIsServerError(t *testing.T) {
	app := newTestApp(&MockQuizService{
		SubmitTestFunc: func(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
			return nil, domain.NewMissingAnswerKeyError()
		},
	})

	req := httptest.NewRequest("POST", "/submit-test",
		bytes.NewBufferString(`{"answers": [{"questionId": 1, "selectedOption": 0}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
