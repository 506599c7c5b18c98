package analyzer

import (
	"context"

	"cognitive-profiler/internal/domain"
)

// unavailableAnalyzer fails every call with the cause it was built with.
// It stands in when no provider credential is configured so the service
// can start and degrade instead of crashing.
type unavailableAnalyzer struct {
	cause error
}

// NewUnavailable returns an Analyzer that always reports the analysis
// service as unavailable.
func NewUnavailable(cause error) domain.Analyzer {
	return &unavailableAnalyzer{cause: cause}
}

func (a *unavailableAnalyzer) Analyze(ctx context.Context, results *domain.TestResults) (*domain.AIAnalysis, error) {
	return nil, domain.NewAnalysisUnavailableError(a.cause)
}
