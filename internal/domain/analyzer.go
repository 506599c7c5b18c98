package domain

import "context"

// Analyzer turns graded results into a narrative performance analysis by
// calling an external text-generation provider. Implementations must map
// every provider failure (transport, parse, invalid shape) to a
// CodeAnalysisUnavailable DomainError.
type Analyzer interface {
	Analyze(ctx context.Context, results *TestResults) (*AIAnalysis, error)
}
