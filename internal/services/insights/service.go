// Package insights computes completion metrics over the cleaned work
// orders and caches the results for the UI.
package insights

import (
	"sync"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/pipeline"
)

// Summary is the cached result of one metrics pass.
type Summary struct {
	Categories  []models.CategoryMetrics
	Volumes     []models.FiscalYearVolume
	TotalOrders int
	OpenOrders  int
	ComputedAt  time.Time
}

// Service derives on-time metrics and request volumes from the order cache.
//
// Open orders are excluded from the on-time calculation but still counted
// in the summary; the volume trend covers every request regardless of
// completion.
type Service struct {
	mu      sync.RWMutex
	summary *Summary
}

// New creates an insights service with an empty cache.
func New() *Service {
	return &Service{}
}

// Recompute runs the metrics over a fresh order set and caches the summary.
func (s *Service) Recompute(orders []models.WorkOrder) (*Summary, error) {
	completed := pipeline.CompletedOnly(orders)

	categories, err := pipeline.OnTimeByCategory(completed)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Categories:  categories,
		Volumes:     pipeline.RequestVolume(orders),
		TotalOrders: len(orders),
		OpenOrders:  len(orders) - len(completed),
		ComputedAt:  time.Now(),
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()

	return summary, nil
}

// Summary returns the cached summary, or nil before the first Recompute.
func (s *Service) Summary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// LaggingCategories returns categories whose on-time percentage is below
// the threshold, in the cached category order.
func (s *Service) LaggingCategories(threshold float64) []models.CategoryMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.summary == nil {
		return nil
	}

	var lagging []models.CategoryMetrics
	for _, cat := range s.summary.Categories {
		if cat.PercentOnTime < threshold {
			lagging = append(lagging, cat)
		}
	}
	return lagging
}

// Category returns the cached metrics for one problem type.
func (s *Service) Category(probType string) (models.CategoryMetrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.summary == nil {
		return models.CategoryMetrics{}, false
	}
	for _, cat := range s.summary.Categories {
		if cat.ProbType == probType {
			return cat, true
		}
	}
	return models.CategoryMetrics{}, false
}
