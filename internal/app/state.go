// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/services"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/insights"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Orders  bool
	History bool
}

// State is the shared application state read by every tab.
type State struct {
	mu sync.RWMutex

	Orders        []models.WorkOrder
	Located       []models.LocatedOrder
	Summary       *insights.Summary
	Stats         *services.StatsEvent
	History       []models.FetchSnapshot
	SelectedIndex int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Orders:        make([]models.WorkOrder, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "orders":
		s.Loading.Orders = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Orders || s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetOrders updates the work order list.
func (s *State) SetOrders(orders []models.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Orders = orders
	s.LastUpdated = time.Now()
}

// GetOrders returns a copy of the work order list.
func (s *State) GetOrders() []models.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.WorkOrder, len(s.Orders))
	copy(orders, s.Orders)
	return orders
}

// GetOrderCount returns the number of cached work orders.
func (s *State) GetOrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Orders)
}

// SetLocated updates the geo-joined order list.
func (s *State) SetLocated(located []models.LocatedOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Located = located
}

// GetLocated returns a copy of the geo-joined order list.
func (s *State) GetLocated() []models.LocatedOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	located := make([]models.LocatedOrder, len(s.Located))
	copy(located, s.Located)
	return located
}

// SetSummary updates the insights summary.
func (s *State) SetSummary(summary *insights.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summary = summary
	s.LastUpdated = time.Now()
}

// GetSummary returns the current insights summary, or nil before the first
// fetch.
func (s *State) GetSummary() *insights.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Summary
}

// SetStats updates the statistics.
func (s *State) SetStats(stats services.StatsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &stats
}

// GetStats returns the current statistics.
func (s *State) GetStats() *services.StatsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// SetHistory updates the fetch snapshot history.
func (s *State) SetHistory(history []models.FetchSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = history
}

// GetHistory returns a copy of the fetch snapshot history.
func (s *State) GetHistory() []models.FetchSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]models.FetchSnapshot, len(s.History))
	copy(history, s.History)
	return history
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// GetSelectedIndex returns the currently selected row index.
func (s *State) GetSelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedIndex
}

// SetSelectedIndex updates the selected row index.
func (s *State) SetSelectedIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedIndex = idx
}
