package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"cognitive-profiler/internal/cache"
	"cognitive-profiler/internal/domain"
	"cognitive-profiler/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AnalysisCacheService hands out narrative analyses for graded results,
// reusing a cached narrative when an identical score profile was already
// analyzed. A cache failure never fails the request; it falls through to
// the provider.
type AnalysisCacheService interface {
	GetOrAnalyze(ctx context.Context, results *domain.TestResults) (*domain.AIAnalysis, error)
}

type analysisCacheService struct {
	cache    domain.Cache
	analyzer domain.Analyzer
	ttl      time.Duration
	group    singleflight.Group
}

// NewAnalysisCacheService creates a new AnalysisCacheService. A nil cache
// disables caching; every request then goes to the provider (still
// deduplicated in flight).
func NewAnalysisCacheService(c domain.Cache, analyzer domain.Analyzer, ttl time.Duration) AnalysisCacheService {
	if c == nil {
		logger.Get().Warn("AnalysisCacheService initialized without cache; analyses will not be reused")
	}
	return &analysisCacheService{
		cache:    c,
		analyzer: analyzer,
		ttl:      ttl,
	}
}

func (s *analysisCacheService) GetOrAnalyze(ctx context.Context, results *domain.TestResults) (*domain.AIAnalysis, error) {
	key := s.generateKey(results)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var analysis domain.AIAnalysis
			if err := json.Unmarshal([]byte(cached), &analysis); err == nil {
				logger.Get().Debug("Analysis cache hit", zap.String("key", key))
				return &analysis, nil
			}
			logger.Get().Warn("Failed to unmarshal cached analysis; ignoring entry",
				zap.String("key", key), zap.Error(err))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Analysis cache lookup failed", zap.String("key", key), zap.Error(err))
		}
	}

	// Concurrent submissions with the same score profile share one
	// provider call.
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		analysis, err := s.analyzer.Analyze(ctx, results)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, analysis)
		return analysis, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*domain.AIAnalysis), nil
}

func (s *analysisCacheService) store(ctx context.Context, key string, analysis *domain.AIAnalysis) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		logger.Get().Error("Failed to marshal analysis for caching", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Warn("Failed to cache analysis", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Get().Debug("Cached analysis", zap.String("key", key), zap.Duration("ttl", s.ttl))
}

// generateKey derives a stable cache key from the score profile. Category
// names are sorted so map iteration order cannot produce distinct keys for
// identical results.
func (s *analysisCacheService) generateKey(results *domain.TestResults) string {
	parts := make([]string, 0, len(results.CategoryResults)+1)
	parts = append(parts, fmt.Sprintf("overall=%d/%d", results.TotalCorrect, results.TotalQuestions))

	titles := make([]string, 0, len(results.CategoryResults))
	for title := range results.CategoryResults {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		r := results.CategoryResults[title]
		parts = append(parts, fmt.Sprintf("%s=%d/%d", title, r.Correct, r.Total))
	}

	digest := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return cache.GenerateCacheKey("analysis", "profile", hex.EncodeToString(digest[:]))
}
