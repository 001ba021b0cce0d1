// Package orders fetches the maintenance export, runs it through the
// cleaning pipeline, and keeps the SQLite cache current.
package orders

import (
	"context"
	"sync"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/catalog"
	"github.com/dgs-kpis/fmd-dashboard/internal/db"
	"github.com/dgs-kpis/fmd-dashboard/internal/logger"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/pipeline"
)

// Event represents an orders service event.
type Event struct {
	Error    error
	Snapshot *models.FetchSnapshot
	Type     EventType
}

// EventType defines the type of orders event.
type EventType int

const (
	// EventOrdersLoaded indicates the cache was primed from disk at startup.
	EventOrdersLoaded EventType = iota
	// EventFetchStarted indicates a catalog fetch is in progress.
	EventFetchStarted
	// EventOrdersUpdated indicates a fetch completed and the cache changed.
	EventOrdersUpdated
	// EventFetchError indicates a fetch or cleaning failure.
	EventFetchError
)

// Config holds configuration for the orders service.
type Config struct {
	Dataset         string
	Table           string
	FiscalYearStart time.Month
	PollInterval    time.Duration
	FetchTimeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FiscalYearStart: time.July,
		PollInterval:    15 * time.Minute,
		FetchTimeout:    2 * time.Minute,
	}
}

// Service manages work-order fetching and caching.
type Service struct {
	client     *catalog.Client
	database   *db.DB
	orders     []models.WorkOrder
	eventChan  chan Event
	stopChan   chan struct{}
	pollTicker *time.Ticker
	config     Config
	mu         sync.RWMutex
}

// New creates a new orders service, primes the in-memory cache from the
// database, and starts the polling goroutine.
func New(client *catalog.Client, database *db.DB, config Config) *Service {
	if config.PollInterval == 0 {
		defaults := DefaultConfig()
		config.PollInterval = defaults.PollInterval
	}
	if config.FetchTimeout == 0 {
		config.FetchTimeout = DefaultConfig().FetchTimeout
	}
	if config.FiscalYearStart == 0 {
		config.FiscalYearStart = DefaultConfig().FiscalYearStart
	}

	s := &Service{
		client:    client,
		database:  database,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		config:    config,
	}

	if cached, err := database.GetWorkOrders(); err != nil {
		logger.Error("failed to prime order cache", "error", err)
	} else if len(cached) > 0 {
		s.orders = cached
		s.sendEvent(Event{Type: EventOrdersLoaded})
	}

	go s.poll()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetOrders returns a copy of the cached work orders, sorted by request date.
func (s *Service) GetOrders() []models.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.WorkOrder, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// Count returns the number of cached work orders.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// OpenCount returns the number of cached orders with no completion date.
func (s *Service) OpenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := 0
	for i := range s.orders {
		if s.orders[i].IsOpen() {
			open++
		}
	}
	return open
}

// Refresh fetches the export, cleans it, and replaces both caches.
func (s *Service) Refresh(ctx context.Context) (*models.FetchSnapshot, error) {
	s.sendEvent(Event{Type: EventFetchStarted})

	fetchCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	frame, err := s.client.FetchTable(fetchCtx, s.config.Dataset, s.config.Table)
	if err != nil {
		return s.handleFetchError(err)
	}

	cleaned, err := pipeline.Clean(frame, s.config.FiscalYearStart)
	if err != nil {
		return s.handleFetchError(err)
	}

	if err := s.database.ReplaceWorkOrders(cleaned); err != nil {
		return s.handleFetchError(err)
	}

	open := 0
	for i := range cleaned {
		if cleaned[i].IsOpen() {
			open++
		}
	}

	snapshot := &models.FetchSnapshot{
		FetchedAt: time.Now().UTC(),
		RowCount:  len(cleaned),
		OpenCount: open,
		Dataset:   s.config.Dataset,
		Table:     s.config.Table,
	}
	if err := s.database.InsertFetchSnapshot(snapshot); err != nil {
		logger.Error("failed to record fetch snapshot", "error", err)
	}

	s.mu.Lock()
	s.orders = cleaned
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventOrdersUpdated, Snapshot: snapshot})

	return snapshot, nil
}

func (s *Service) handleFetchError(err error) (*models.FetchSnapshot, error) {
	s.sendEvent(Event{Type: EventFetchError, Error: err})
	return nil, err
}

// History returns recent fetch snapshots, newest first.
func (s *Service) History(limit int) ([]models.FetchSnapshot, error) {
	return s.database.GetFetchSnapshots(limit)
}

// poll runs the background refresh loop.
func (s *Service) poll() {
	if _, err := s.Refresh(context.Background()); err != nil {
		logger.Error("initial fetch failed", "error", err)
	}

	s.pollTicker = time.NewTicker(s.config.PollInterval)
	defer s.pollTicker.Stop()

	for {
		select {
		case <-s.pollTicker.C:
			if _, err := s.Refresh(context.Background()); err != nil {
				logger.Error("scheduled fetch failed", "error", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
