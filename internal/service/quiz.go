package service

import (
	"context"
	"sync"

	"cognitive-profiler/internal/domain"
	"cognitive-profiler/internal/dto"
	"cognitive-profiler/internal/logger"
	"cognitive-profiler/internal/repository"

	"go.uber.org/zap"
)

// Fixed quiz policy: a single-category test is shorter than a
// multi-category one. The distinction is binary, not per-category.
const (
	singleCategoryQuestions = 15
	singleCategoryTimeLimit = 900
	multiCategoryQuestions  = 30
	multiCategoryTimeLimit  = 1800
)

// RandomSource is the subset of *rand.Rand the assembler consumes.
// Injecting it lets tests supply a seeded source for reproducible draws.
type RandomSource interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

// QuizService exposes the quiz operations backed by the question bank
type QuizService interface {
	GetCategories() []dto.CategoryResponse
	StartTest(req *dto.StartTestRequest) (*dto.QuizResponse, error)
	SubmitTest(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)
}

type quizService struct {
	bank     *repository.QuestionBank
	analysis AnalysisCacheService

	// rng is shared across requests; mu serializes access since
	// *rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng RandomSource
}

// NewQuizService creates a new QuizService instance
func NewQuizService(bank *repository.QuestionBank, analysis AnalysisCacheService, rng RandomSource) QuizService {
	return &quizService{
		bank:     bank,
		analysis: analysis,
		rng:      rng,
	}
}

// GetCategories returns every registry category that has at least one
// loaded question, in registry order.
func (s *quizService) GetCategories() []dto.CategoryResponse {
	categories := make([]dto.CategoryResponse, 0, len(domain.CategoryRegistry))
	for _, c := range domain.CategoryRegistry {
		if !s.bank.HasQuestions(c.Title) {
			continue
		}
		categories = append(categories, dto.CategoryResponse{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Icon:        c.Icon,
		})
	}
	return categories
}

// StartTest assembles a shuffled quiz from the requested category ids.
func (s *quizService) StartTest(req *dto.StartTestRequest) (*dto.QuizResponse, error) {
	if len(req.Categories) == 0 {
		return nil, domain.NewValidationError("categories must contain at least one item")
	}

	titles := make([]string, 0, len(req.Categories))
	for _, id := range req.Categories {
		title, ok := domain.CategoryTitleByID(id)
		if !ok {
			return nil, domain.NewInvalidCategoryError(id)
		}
		titles = append(titles, title)
	}

	numCategories := len(titles)
	totalQuestions := multiCategoryQuestions
	timeLimit := multiCategoryTimeLimit
	if numCategories == 1 {
		totalQuestions = singleCategoryQuestions
		timeLimit = singleCategoryTimeLimit
	}

	perCategory := totalQuestions / numCategories
	remainder := totalQuestions % numCategories

	var selected []domain.Question

	s.mu.Lock()
	for i, title := range titles {
		// The first `remainder` categories, in request order, absorb the
		// leftover questions. Deliberately deterministic.
		quota := perCategory
		if i < remainder {
			quota++
		}

		pool := s.bank.Pool(title)
		if quota > len(pool) {
			// Pool smaller than quota: the quiz is simply shorter.
			quota = len(pool)
		}

		for _, idx := range s.rng.Perm(len(pool))[:quota] {
			selected = append(selected, pool[idx])
		}
	}

	// Shuffle across categories so question order reveals nothing.
	s.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	s.mu.Unlock()

	questions := make([]dto.QuestionResponse, 0, len(selected))
	for _, q := range selected {
		questions = append(questions, dto.QuestionResponse{
			ID:           q.ID,
			Category:     q.Category,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}

	logger.Get().Info("Assembled quiz",
		zap.Int("categories", numCategories),
		zap.Int("questions", len(questions)),
		zap.Int("time_limit_seconds", timeLimit),
	)

	return &dto.QuizResponse{
		Questions:        questions,
		TimeLimitSeconds: timeLimit,
	}, nil
}

// SubmitTest grades the submitted answers and attaches the narrative
// analysis produced by the external provider.
func (s *quizService) SubmitTest(ctx context.Context, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	if len(req.Answers) == 0 {
		return nil, domain.NewNoAnswersError()
	}
	if len(s.bank.AnswerKey()) == 0 {
		return nil, domain.NewMissingAnswerKeyError()
	}

	results := s.grade(req.Answers)

	analysis, err := s.analysis.GetOrAnalyze(ctx, results)
	if err != nil {
		return nil, err
	}

	categoryResults := make(map[string]dto.CategoryResultResponse, len(results.CategoryResults))
	for title, r := range results.CategoryResults {
		categoryResults[title] = dto.CategoryResultResponse{
			Correct: r.Correct,
			Total:   r.Total,
		}
	}

	return &dto.SubmitTestResponse{
		Results: dto.TestResultsResponse{
			TotalCorrect:    results.TotalCorrect,
			TotalQuestions:  results.TotalQuestions,
			CategoryResults: categoryResults,
		},
		Analysis: dto.AnalysisResponse{
			Title:             analysis.Title,
			OverallSummary:    analysis.OverallSummary,
			StrengthsAnalysis: analysis.StrengthsAnalysis,
			GrowthAnalysis:    analysis.GrowthAnalysis,
			ActionItem:        analysis.ActionItem,
		},
	}, nil
}

// grade scores the submission against the derived answer key. Answers
// referencing unknown question ids are skipped: they still count toward
// TotalQuestions but contribute to no category and not to TotalCorrect.
func (s *quizService) grade(answers []dto.AnswerRequest) *domain.TestResults {
	answerKey := s.bank.AnswerKey()
	categoryKey := s.bank.CategoryKey()

	results := &domain.TestResults{
		TotalQuestions:  len(answers),
		CategoryResults: make(map[string]domain.CategoryResult),
	}

	for _, answer := range answers {
		correctIndex, okAnswer := answerKey[answer.QuestionID]
		category, okCategory := categoryKey[answer.QuestionID]
		if !okAnswer || !okCategory {
			continue
		}

		r := results.CategoryResults[category]
		r.Total++
		if answer.SelectedOption == correctIndex {
			r.Correct++
			results.TotalCorrect++
		}
		results.CategoryResults[category] = r
	}

	return results
}
