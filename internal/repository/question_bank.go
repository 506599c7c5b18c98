package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"cognitive-profiler/internal/domain"
)

// QuestionBank is the immutable in-memory question collection plus the
// lookup structures derived from it. It is built once at startup and only
// read afterwards, so concurrent access needs no locking.
type QuestionBank struct {
	questions   []domain.Question
	pools       map[string][]domain.Question
	answerKey   domain.AnswerKey
	categoryKey domain.CategoryKey
}

// NewQuestionBank builds a bank from an already-decoded question list,
// validating every record. Any invalid record fails the whole load.
func NewQuestionBank(questions []domain.Question) (*QuestionBank, error) {
	bank := &QuestionBank{
		pools:       make(map[string][]domain.Question),
		answerKey:   make(domain.AnswerKey),
		categoryKey: make(domain.CategoryKey),
	}

	for i := range questions {
		q := questions[i]
		if err := q.Validate(); err != nil {
			return emptyBank(), fmt.Errorf("question at index %d: %w", i, err)
		}
		if _, exists := bank.answerKey[q.ID]; exists {
			return emptyBank(), fmt.Errorf("duplicate question id: %d", q.ID)
		}
		bank.questions = append(bank.questions, q)
		bank.pools[q.Category] = append(bank.pools[q.Category], q)
		bank.answerKey[q.ID] = q.CorrectAnswerIndex
		bank.categoryKey[q.ID] = q.Category
	}

	return bank, nil
}

// NewFileQuestionBank loads the question bank resource from a JSON file.
// On any failure it returns an empty bank together with the error; the
// caller is expected to log the failure and keep the service up in a
// degraded state.
func NewFileQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyBank(), fmt.Errorf("failed to read question bank %s: %w", path, err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return emptyBank(), fmt.Errorf("failed to parse question bank %s: %w", path, err)
	}

	return NewQuestionBank(questions)
}

func emptyBank() *QuestionBank {
	return &QuestionBank{
		pools:       make(map[string][]domain.Question),
		answerKey:   make(domain.AnswerKey),
		categoryKey: make(domain.CategoryKey),
	}
}

// Questions returns every loaded question.
func (b *QuestionBank) Questions() []domain.Question {
	return b.questions
}

// Size returns the number of loaded questions.
func (b *QuestionBank) Size() int {
	return len(b.questions)
}

// Pool returns the questions belonging to one category title.
func (b *QuestionBank) Pool(categoryTitle string) []domain.Question {
	return b.pools[categoryTitle]
}

// HasQuestions reports whether at least one question references the
// given category title.
func (b *QuestionBank) HasQuestions(categoryTitle string) bool {
	return len(b.pools[categoryTitle]) > 0
}

// AnswerKey returns the derived question id to correct option index map.
func (b *QuestionBank) AnswerKey() domain.AnswerKey {
	return b.answerKey
}

// CategoryKey returns the derived question id to category title map.
func (b *QuestionBank) CategoryKey() domain.CategoryKey {
	return b.categoryKey
}
