package app

import (
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/services"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/insights"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// OrdersLoadedMsg contains the current order cache and statistics.
type OrdersLoadedMsg struct {
	Orders  []models.WorkOrder
	Located []models.LocatedOrder
	Summary *insights.Summary
	Stats   services.StatsEvent
}

// HistoryLoadedMsg contains loaded fetch snapshots.
type HistoryLoadedMsg struct {
	Snapshots []models.FetchSnapshot
	Error     error
}

// FetchResultMsg contains the result of a forced refresh.
type FetchResultMsg struct {
	Snapshot *models.FetchSnapshot
	Error    error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "orders", "history"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SelectedOrderChangedMsg signals that the selected row in a table changed.
type SelectedOrderChangedMsg struct {
	Index   int
	OrderID string
}
