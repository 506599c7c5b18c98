package dto

// CategoryResponse represents a category in the API response
// @Description Category information
type CategoryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// StartTestRequest is the body of POST /start-test
type StartTestRequest struct {
	Categories []string `json:"categories"`
}

// QuestionResponse is a question as delivered to the client. The correct
// answer index is deliberately absent.
type QuestionResponse struct {
	ID           int      `json:"id"`
	Category     string   `json:"category"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// QuizResponse is the assembled quiz returned by POST /start-test
type QuizResponse struct {
	Questions        []QuestionResponse `json:"questions"`
	TimeLimitSeconds int                `json:"timeLimitSeconds"`
}

// AnswerRequest is a single submitted answer
type AnswerRequest struct {
	QuestionID     int `json:"questionId"`
	SelectedOption int `json:"selectedOption"`
}

// SubmitTestRequest is the body of POST /submit-test
type SubmitTestRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

// CategoryResultResponse is per-category correctness in the API response
type CategoryResultResponse struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// TestResultsResponse is the graded outcome in the API response
type TestResultsResponse struct {
	TotalCorrect    int                               `json:"totalCorrect"`
	TotalQuestions  int                               `json:"totalQuestions"`
	CategoryResults map[string]CategoryResultResponse `json:"categoryResults"`
}

// AnalysisResponse is the provider-generated narrative analysis
type AnalysisResponse struct {
	Title             string `json:"title"`
	OverallSummary    string `json:"overall_summary"`
	StrengthsAnalysis string `json:"strengths_analysis"`
	GrowthAnalysis    string `json:"growth_analysis"`
	ActionItem        string `json:"action_item"`
}

// SubmitTestResponse combines grading results and the narrative analysis
type SubmitTestResponse struct {
	Results  TestResultsResponse `json:"results"`
	Analysis AnalysisResponse    `json:"analysis"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
