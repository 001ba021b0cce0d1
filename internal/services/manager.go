// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/dgs-kpis/fmd-dashboard/internal/catalog"
	"github.com/dgs-kpis/fmd-dashboard/internal/config"
	"github.com/dgs-kpis/fmd-dashboard/internal/db"
	"github.com/dgs-kpis/fmd-dashboard/internal/logger"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/geodir"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/insights"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/orders"
)

type (
	// OrdersUpdatedEvent is emitted when a fetch completes and the order
	// cache changes.
	OrdersUpdatedEvent struct {
		Snapshot *models.FetchSnapshot
	}

	// FetchStartedEvent is emitted when a catalog fetch begins.
	FetchStartedEvent struct{}

	// MetricsUpdatedEvent is emitted when the insights summary is recomputed.
	MetricsUpdatedEvent struct {
		Summary *insights.Summary
	}

	// DirectoryChangedEvent is emitted when the building workbook loads or
	// reloads.
	DirectoryChangedEvent struct {
		Buildings int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StatsEvent is emitted when global statistics change.
	StatsEvent struct {
		TotalOrders int
		OpenOrders  int
		Buildings   int
		Categories  int
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (OrdersUpdatedEvent) isServiceEvent()    {}
func (FetchStartedEvent) isServiceEvent()     {}
func (MetricsUpdatedEvent) isServiceEvent()   {}
func (DirectoryChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()            {}
func (StatsEvent) isServiceEvent()            {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	orders      *orders.Service
	geodir      *geodir.Service
	insights    *insights.Service
	database    *db.DB
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	alertThreshold float64
	wasLagging     map[string]bool
	notify         func(title, body string)
}

// NewManager creates a new service manager and starts its services.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan:      make(chan ServiceEvent, 100),
		stopChan:       make(chan struct{}),
		alertThreshold: cfg.OnTimeAlertThreshold,
		wasLagging:     make(map[string]bool),
		notify: func(title, body string) {
			_ = beeep.Notify(title, body, "")
		},
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.insights = insights.New()

	m.geodir, err = geodir.New(cfg.GeocodePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize building directory: %w", err)
	}

	ordersConfig := orders.DefaultConfig()
	ordersConfig.Dataset = cfg.Dataset
	ordersConfig.Table = cfg.Table
	ordersConfig.FiscalYearStart = cfg.FiscalYearStart
	ordersConfig.PollInterval = cfg.RefreshInterval

	m.orders = orders.New(catalog.NewClient(cfg.DataworldToken), m.database, ordersConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.orders.Events():
			m.handleOrdersEvent(event)

		case event := <-m.geodir.Events():
			m.handleGeodirEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleOrdersEvent(event orders.Event) {
	switch event.Type {
	case orders.EventFetchStarted:
		m.broadcast(FetchStartedEvent{})

	case orders.EventOrdersLoaded, orders.EventOrdersUpdated:
		if event.Type == orders.EventOrdersUpdated {
			m.broadcast(OrdersUpdatedEvent{Snapshot: event.Snapshot})
		}
		m.recomputeMetrics()

	case orders.EventFetchError:
		m.broadcast(ErrorEvent{Service: "orders", Error: event.Error})
		m.notify("Work Order Fetch Failed", fmt.Sprintf("Could not refresh maintenance data: %v", event.Error))
	}
}

func (m *Manager) handleGeodirEvent(event geodir.Event) {
	switch event.Type {
	case geodir.EventDirectoryLoaded, geodir.EventDirectoryReloaded:
		m.broadcast(DirectoryChangedEvent{Buildings: m.geodir.Len()})

	case geodir.EventError:
		m.broadcast(ErrorEvent{Service: "geodir", Error: event.Error})
	}
}

// recomputeMetrics refreshes the insights summary from the order cache and
// fires lagging-category notifications.
func (m *Manager) recomputeMetrics() {
	summary, err := m.insights.Recompute(m.orders.GetOrders())
	if err != nil {
		m.broadcast(ErrorEvent{Service: "insights", Error: err})
		return
	}

	m.broadcast(MetricsUpdatedEvent{Summary: summary})
	m.broadcast(m.GetStats())
	m.checkNotifications(summary)
}

// checkNotifications fires a desktop notification for each category that
// dropped below the alert threshold since the previous summary.
func (m *Manager) checkNotifications(summary *insights.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cat := range summary.Categories {
		lagging := cat.PercentOnTime < m.alertThreshold
		if lagging && !m.wasLagging[cat.ProbType] {
			title := fmt.Sprintf("On-Time Rate Alert: %s", cat.ProbType)
			body := fmt.Sprintf("%.1f%% of %s orders completed on time (threshold %.0f%%)",
				cat.PercentOnTime, cat.ProbType, m.alertThreshold)
			m.notify(title, body)
		}
		m.wasLagging[cat.ProbType] = lagging
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Refresh forces an immediate catalog fetch.
func (m *Manager) Refresh() (*models.FetchSnapshot, error) {
	return m.orders.Refresh(context.Background())
}

// GetOrders returns the cached work orders.
func (m *Manager) GetOrders() []models.WorkOrder {
	return m.orders.GetOrders()
}

// GetLocatedOrders returns the cached orders joined with building
// coordinates.
func (m *Manager) GetLocatedOrders() ([]models.LocatedOrder, error) {
	return m.geodir.Join(m.orders.GetOrders())
}

// GetSummary returns the cached insights summary, or nil before the first
// successful fetch.
func (m *Manager) GetSummary() *insights.Summary {
	return m.insights.Summary()
}

// GetFetchHistory returns recent fetch snapshots, newest first.
func (m *Manager) GetFetchHistory(limit int) ([]models.FetchSnapshot, error) {
	return m.orders.History(limit)
}

// GetStats returns aggregated statistics.
func (m *Manager) GetStats() StatsEvent {
	stats := StatsEvent{
		TotalOrders: m.orders.Count(),
		OpenOrders:  m.orders.OpenCount(),
		Buildings:   m.geodir.Len(),
	}
	if summary := m.insights.Summary(); summary != nil {
		stats.Categories = len(summary.Categories)
	}
	return stats
}

// Orders returns the orders service.
func (m *Manager) Orders() *orders.Service {
	return m.orders
}

// Geodir returns the building directory service.
func (m *Manager) Geodir() *geodir.Service {
	return m.geodir
}

// Insights returns the insights service.
func (m *Manager) Insights() *insights.Service {
	return m.insights
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.orders != nil {
		if err := m.orders.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.geodir != nil {
		if err := m.geodir.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Error("errors closing services", "count", len(errs))
		return errs[0]
	}
	return nil
}
