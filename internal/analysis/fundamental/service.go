package fundamental

import (
	"context"
	"log"

	"github.com/seenimoa/finfetch/pkg/models"
)

// FallbackThreshold is the number of missing metrics the primary source may
// produce before the alternate source is consulted. Strictly more than this
// many missing values triggers the merge.
const FallbackThreshold = 3

// Source produces the canonical metric set for a ticker. Implementations:
// the Screener.in scraper and the Yahoo statements client.
type Source interface {
	Name() string
	GetFinanceValues(ctx context.Context, ticker, exchange string, forceRefresh bool) (models.Metrics, error)
}

// Service orchestrates the two statement sources: the primary runs first, and
// when its result is too sparse the fallback fills the gaps. Merging is
// field-by-field; a non-missing primary value is never overwritten.
type Service struct {
	primary  Source
	fallback Source
}

// NewService builds the orchestrator. Either source may be nil.
func NewService(primary, fallback Source) *Service {
	return &Service{primary: primary, fallback: fallback}
}

// Fetch returns the merged metric set. It never returns an error: a failed
// source contributes an all-missing set and the other carries what it can.
func (s *Service) Fetch(ctx context.Context, ticker, exchange string, forceRefresh bool) models.Metrics {
	metrics := models.NewMetrics()

	if s.primary != nil {
		got, err := s.primary.GetFinanceValues(ctx, ticker, exchange, forceRefresh)
		if err != nil {
			log.Printf("[fundamentals] primary source %s failed for %s: %v", s.primary.Name(), ticker, err)
		} else {
			metrics = got
		}
	}

	if metrics.CountNA() <= FallbackThreshold || s.fallback == nil {
		return metrics
	}

	log.Printf("[fundamentals] %s has %d missing metrics — consulting %s",
		ticker, metrics.CountNA(), s.fallback.Name())
	alt, err := s.fallback.GetFinanceValues(ctx, ticker, exchange, forceRefresh)
	if err != nil {
		log.Printf("[fundamentals] fallback source %s failed for %s: %v", s.fallback.Name(), ticker, err)
		return metrics
	}

	merged := models.NewMetrics()
	merged.Merge(alt)
	merged.Merge(metrics) // primary wins where both have a value
	return merged
}
