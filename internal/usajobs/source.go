package usajobs

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrSourceUnavailable means every configured job source failed, the bundled
// fallback included. No partial results accompany it.
var ErrSourceUnavailable = errors.New("no job source available")

// Source is one tier of posting retrieval.
type Source interface {
	Name() string
	Fetch(params *SearchParams) ([]*RawPosting, error)
}

// LiveSource adapts the API client to the Source interface.
type LiveSource struct {
	client *Client
}

func NewLiveSource(client *Client) *LiveSource {
	return &LiveSource{client: client}
}

func (s *LiveSource) Name() string { return "usajobs api" }

func (s *LiveSource) Fetch(params *SearchParams) ([]*RawPosting, error) {
	return s.client.Search(params)
}

// FetchResult carries postings plus degradation metadata for the caller.
type FetchResult struct {
	Items    []*RawPosting
	Degraded bool
	Source   string
}

// TieredSource tries each source in order and short-circuits on the first
// success. Results from any tier after the first are marked degraded so the
// caller can warn the user.
type TieredSource struct {
	sources []Source
	logger  *zap.Logger
}

func NewTieredSource(logger *zap.Logger, sources ...Source) *TieredSource {
	return &TieredSource{sources: sources, logger: logger}
}

func (t *TieredSource) Fetch(params *SearchParams) (*FetchResult, error) {
	var lastErr error

	for i, source := range t.sources {
		items, err := source.Fetch(params)
		if err != nil {
			t.logger.Warn("job source failed",
				zap.String("source", source.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		degraded := i > 0
		if degraded {
			t.logger.Warn("falling back to degraded job source",
				zap.String("source", source.Name()),
			)
		}

		return &FetchResult{Items: items, Degraded: degraded, Source: source.Name()}, nil
	}

	if lastErr == nil {
		return nil, ErrSourceUnavailable
	}

	return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, lastErr)
}
