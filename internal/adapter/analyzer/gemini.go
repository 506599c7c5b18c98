// Package analyzer adapts the external text-generation provider into the
// domain.Analyzer port. The provider is a black box: prompt and score
// data go in, a strictly validated five-field JSON narrative comes out.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"cognitive-profiler/internal/domain"
	"cognitive-profiler/internal/logger"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

const systemPrompt = `You are an expert cognitive skills coach and analyst. Your tone is professional,
encouraging, insightful, and positive. You are NOT a doctor and you MUST NOT
provide any medical diagnosis or advice.

You will be given a JSON object containing a user's performance on a cognitive
skills quiz. The user is looking for an analysis of their strengths and
potential areas for practice.

Your task is to analyze their performance and return a single, valid JSON object
containing your analysis.

The output JSON object MUST have this exact structure:
{
  "title": "Your Profile Analysis",
  "overall_summary": "A 2-3 sentence overview of their performance.",
  "strengths_analysis": "A detailed paragraph identifying their strongest-performing category and explaining what that skill means, encouraging by mentioning their score.",
  "growth_analysis": "A friendly and encouraging paragraph identifying their lowest-performing category, framing it as an 'area for practice' or 'a new challenge to explore'.",
  "action_item": "A single, simple, real-world action item the user can do to practice their growth area (e.g., 'Try a Sudoku puzzle' or 'Read a new article and try to summarize it')."
}`

// analysisSchema is the contract the provider's reply must satisfy before
// it is trusted: exactly the five string fields, nothing else.
const analysisSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"overall_summary": {"type": "string"},
		"strengths_analysis": {"type": "string"},
		"growth_analysis": {"type": "string"},
		"action_item": {"type": "string"}
	},
	"required": ["title", "overall_summary", "strengths_analysis", "growth_analysis", "action_item"],
	"additionalProperties": false
}`

type categoryScore struct {
	Category string `json:"category"`
	Score    string `json:"score"`
}

type analysisRequest struct {
	OverallScore   string          `json:"overall_score"`
	CategoryScores []categoryScore `json:"category_scores"`
}

// GeminiAnalyzer implements domain.Analyzer on top of the Gemini API via
// langchaingo.
type GeminiAnalyzer struct {
	llm     llms.Model
	timeout time.Duration
	schema  *jsonschema.Schema
}

// New creates a GeminiAnalyzer talking to the real Gemini API.
func New(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return NewWithModel(llm, timeout)
}

// NewWithModel creates a GeminiAnalyzer around an existing llms.Model.
// Tests use this to substitute a fake model.
func NewWithModel(llm llms.Model, timeout time.Duration) (*GeminiAnalyzer, error) {
	schema, err := compileAnalysisSchema()
	if err != nil {
		return nil, err
	}
	return &GeminiAnalyzer{
		llm:     llm,
		timeout: timeout,
		schema:  schema,
	}, nil
}

func compileAnalysisSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(analysisSchema))
	if err != nil {
		return nil, fmt.Errorf("parse analysis schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://analysis.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema://analysis.json")
	if err != nil {
		return nil, fmt.Errorf("compile analysis schema: %w", err)
	}
	return compiled, nil
}

// Analyze implements domain.Analyzer. Any failure of the provider call,
// of JSON parsing, or of schema validation surfaces as a single
// CodeAnalysisUnavailable error; the caller decides whether to resubmit.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, results *domain.TestResults) (*domain.AIAnalysis, error) {
	l := logger.Get()

	payload, err := json.Marshal(buildAnalysisRequest(results))
	if err != nil {
		return nil, domain.NewAnalysisUnavailableError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, a.llm,
		systemPrompt+"\n\n"+string(payload),
		llms.WithJSONMode(),
		llms.WithTemperature(0.4),
	)
	if err != nil {
		l.Error("Gemini API call failed", zap.Error(err))
		return nil, domain.NewAnalysisUnavailableError(err)
	}

	analysis, err := a.parseResponse(response)
	if err != nil {
		l.Error("Gemini returned an invalid analysis",
			zap.Error(err),
			zap.String("response", response),
		)
		return nil, domain.NewAnalysisUnavailableError(err)
	}

	return analysis, nil
}

// parseResponse strips markdown fences some models wrap JSON in, parses
// the reply, and validates it against the analysis schema.
func (a *GeminiAnalyzer) parseResponse(response string) (*domain.AIAnalysis, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON from provider: %w", err)
	}
	if err := a.schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("provider response failed schema validation: %w", err)
	}

	var analysis domain.AIAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	return &analysis, nil
}

// buildAnalysisRequest formats graded results for the provider. Only
// categories that accumulated at least one resolvable answer are included.
func buildAnalysisRequest(results *domain.TestResults) analysisRequest {
	titles := make([]string, 0, len(results.CategoryResults))
	for title := range results.CategoryResults {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	scores := make([]categoryScore, 0, len(titles))
	for _, title := range titles {
		r := results.CategoryResults[title]
		if r.Total == 0 {
			continue
		}
		scores = append(scores, categoryScore{
			Category: title,
			Score:    fmt.Sprintf("%d/%d", r.Correct, r.Total),
		})
	}

	return analysisRequest{
		OverallScore:   fmt.Sprintf("%d/%d", results.TotalCorrect, results.TotalQuestions),
		CategoryScores: scores,
	}
}

// Static assertion that GeminiAnalyzer implements the Analyzer port
var _ domain.Analyzer = (*GeminiAnalyzer)(nil)
