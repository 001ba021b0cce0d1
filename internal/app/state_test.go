package app

import (
	"testing"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/services"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/insights"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should start true")
	}
	if s.GetOrderCount() != 0 {
		t.Error("Order count should start at 0")
	}
}

func TestState_Loading(t *testing.T) {
	s := NewState()

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("Nothing should be loading")
	}

	s.SetLoading("orders", true)
	if !s.AnyLoading() {
		t.Error("Orders should be loading")
	}
	s.SetLoading("orders", false)

	s.SetLoading("history", true)
	if !s.AnyLoading() {
		t.Error("History should be loading")
	}
	s.SetLoading("history", false)

	// Unknown resources are ignored.
	s.SetLoading("bogus", true)
	if s.AnyLoading() {
		t.Error("Unknown resource should not change loading state")
	}
}

func TestState_Orders(t *testing.T) {
	s := NewState()

	orders := []models.WorkOrder{
		{ID: "WO-1", ProbType: "HVAC"},
		{ID: "WO-2", ProbType: "BOILER"},
	}
	s.SetOrders(orders)

	if s.GetOrderCount() != 2 {
		t.Errorf("Expected 2 orders, got %d", s.GetOrderCount())
	}

	got := s.GetOrders()
	got[0].ID = "mutated"
	if s.GetOrders()[0].ID != "WO-1" {
		t.Error("GetOrders should return a copy")
	}

	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
	if s.TimeSinceUpdate() < 0 {
		t.Error("TimeSinceUpdate should be non-negative")
	}
}

func TestState_Located(t *testing.T) {
	s := NewState()

	located := []models.LocatedOrder{
		{WorkOrder: models.WorkOrder{ID: "WO-1"}, BuildingName: "City Hall"},
	}
	s.SetLocated(located)

	got := s.GetLocated()
	if len(got) != 1 || got[0].BuildingName != "City Hall" {
		t.Errorf("Unexpected located orders: %+v", got)
	}
}

func TestState_SummaryAndStats(t *testing.T) {
	s := NewState()

	if s.GetSummary() != nil {
		t.Error("Summary should start nil")
	}

	summary := &insights.Summary{TotalOrders: 10}
	s.SetSummary(summary)
	if s.GetSummary() != summary {
		t.Error("Summary should round-trip")
	}

	s.SetStats(services.StatsEvent{TotalOrders: 10, Buildings: 3})
	stats := s.GetStats()
	if stats == nil || stats.Buildings != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestState_History(t *testing.T) {
	s := NewState()

	snaps := []models.FetchSnapshot{{RowCount: 5}, {RowCount: 6}}
	s.SetHistory(snaps)

	got := s.GetHistory()
	if len(got) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(got))
	}
	got[0].RowCount = 99
	if s.GetHistory()[0].RowCount != 5 {
		t.Error("GetHistory should return a copy")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "hello", 0)
	if id == "" {
		t.Fatal("AddNotification returned empty ID")
	}
	if len(s.GetNotifications()) != 1 {
		t.Error("Expected 1 notification")
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}

	// Expired notifications are filtered out.
	s.AddNotification(NotificationSuccess, "fast", time.Nanosecond)
	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("Expired notification should be cleared")
	}

	// Capped at 10.
	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if len(s.GetNotifications()) != 10 {
		t.Errorf("Expected notification cap of 10, got %d", len(s.GetNotifications()))
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should empty the list")
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Fatalf("Unexpected notifications: %+v", notifs)
	}

	// Setting again updates in place.
	s.SetLoadingNotification("Still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "Still loading..." {
		t.Errorf("Loading notification should update in place: %+v", notifs)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_SelectedIndex(t *testing.T) {
	s := NewState()
	s.SetSelectedIndex(3)
	if s.GetSelectedIndex() != 3 {
		t.Errorf("Expected selected index 3, got %d", s.GetSelectedIndex())
	}
}

func TestNotificationType_String(t *testing.T) {
	cases := map[NotificationType]string{
		NotificationSuccess: "success",
		NotificationError:   "error",
		NotificationWarning: "warning",
		NotificationInfo:    "info",
		NotificationType(9): "unknown",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
