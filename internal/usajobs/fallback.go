package usajobs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

//go:embed sample_postings.json
var samplePostings []byte

// FallbackSource serves a bundled static dataset of RawPosting-shaped
// records. It is used verbatim when the live API is unavailable; the dataset
// is parsed once per process.
type FallbackSource struct {
	logger *zap.Logger

	once     sync.Once
	postings []*RawPosting
	parseErr error
}

func NewFallbackSource(logger *zap.Logger) *FallbackSource {
	return &FallbackSource{logger: logger}
}

func (s *FallbackSource) Name() string { return "fallback dataset" }

func (s *FallbackSource) Fetch(_ *SearchParams) ([]*RawPosting, error) {
	s.once.Do(func() {
		s.parseErr = json.Unmarshal(samplePostings, &s.postings)
	})

	if s.parseErr != nil {
		return nil, fmt.Errorf("parse bundled dataset: %w", s.parseErr)
	}

	s.logger.Debug("serving bundled postings", zap.Int("count", len(s.postings)))

	// Callers may filter the slice in place; hand out a copy.
	postings := make([]*RawPosting, len(s.postings))
	copy(postings, s.postings)

	return postings, nil
}
