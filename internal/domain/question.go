package domain

// Question represents a single quiz question in the bank.
// Questions are loaded once at startup and never mutated afterwards.
type Question struct {
	ID                 int      `json:"id"`
	Category           string   `json:"category"`
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Validate checks that a loaded question carries every required field.
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return NewValidationError("question id is required")
	}
	if q.Category == "" {
		return NewValidationError("question category is required")
	}
	if q.QuestionText == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) == 0 {
		return NewValidationError("question options are required")
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return NewValidationError("correct answer index out of range")
	}
	return nil
}

// Category represents a skill category exposed to clients.
type Category struct {
	ID          string
	Title       string
	Description string
	Icon        string
}

// AnswerKey maps a question id to its correct option index.
// Derived from the question bank at startup, read-only thereafter.
type AnswerKey map[int]int

// CategoryKey maps a question id to its category title.
type CategoryKey map[int]string

// Answer is a single submitted answer. It is not required to reference
// a question that was actually issued; unresolvable answers are skipped
// during grading rather than rejected.
type Answer struct {
	QuestionID     int
	SelectedOption int
}

// CategoryResult accumulates per-category correctness during grading.
type CategoryResult struct {
	Correct int
	Total   int
}

// TestResults is the graded outcome of one submission. TotalQuestions
// counts every submitted answer, including ones that never resolved to a
// known question; CategoryResults only accumulate resolvable answers.
type TestResults struct {
	TotalCorrect    int
	TotalQuestions  int
	CategoryResults map[string]CategoryResult
}

// AIAnalysis is the narrative produced by the external analysis provider,
// validated against this exact five-field shape before being trusted.
type AIAnalysis struct {
	Title             string `json:"title"`
	OverallSummary    string `json:"overall_summary"`
	StrengthsAnalysis string `json:"strengths_analysis"`
	GrowthAnalysis    string `json:"growth_analysis"`
	ActionItem        string `json:"action_item"`
}
