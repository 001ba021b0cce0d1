package geodir

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := []any{"Building ID", "Name", "Address", "Site ID", "Latitude", "Longitude"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "buildings.xlsx")
	writeWorkbook(t, path, [][]any{
		{"B001", "City Hall", "100 Holliday St", "S01", "39.2904", "-76.6122"},
	})

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func waitForEvent(t *testing.T, s *Service, want EventType) Event {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case event := <-s.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("Timed out waiting for event type %d", want)
		}
	}
}

func TestNewLoadsDirectory(t *testing.T) {
	s, _ := newTestService(t)

	waitForEvent(t, s, EventDirectoryLoaded)

	if s.Len() != 1 {
		t.Fatalf("Expected 1 building, got %d", s.Len())
	}
	rec, ok := s.Lookup("B001")
	if !ok || rec.Name != "City Hall" {
		t.Errorf("Unexpected lookup result: %+v ok=%v", rec, ok)
	}
}

func TestNewMissingWorkbook(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Fatal("Expected error for missing workbook")
	}
}

func TestReloadOnChange(t *testing.T) {
	s, path := newTestService(t)
	waitForEvent(t, s, EventDirectoryLoaded)

	writeWorkbook(t, path, [][]any{
		{"B001", "City Hall", "100 Holliday St", "S01", "39.2904", "-76.6122"},
		{"B002", "Courthouse East", "111 N Calvert St", "S01", "39.2912", "-76.6107"},
	})

	waitForEvent(t, s, EventDirectoryReloaded)

	if s.Len() != 2 {
		t.Errorf("Expected 2 buildings after reload, got %d", s.Len())
	}
	if _, ok := s.Lookup("B002"); !ok {
		t.Error("Expected B002 after reload")
	}
}

func TestBadReloadKeepsPreviousDirectory(t *testing.T) {
	s, path := newTestService(t)
	waitForEvent(t, s, EventDirectoryLoaded)

	old := s.Directory()

	writeWorkbook(t, path, [][]any{
		{"B001", "City Hall", "100 Holliday St", "S01", "not-a-number", "-76.6122"},
	})

	event := waitForEvent(t, s, EventError)
	if event.Error == nil {
		t.Fatal("Expected error on bad reload")
	}
	if s.Directory() != old {
		t.Error("Expected previous directory to stay in service")
	}
}

func TestJoinUsesCurrentDirectory(t *testing.T) {
	s, _ := newTestService(t)
	waitForEvent(t, s, EventDirectoryLoaded)

	located, err := s.Join([]models.WorkOrder{{ID: "WO-1", BuildingID: "B001"}})
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(located) != 1 || located[0].BuildingName != "City Hall" {
		t.Errorf("Unexpected join result: %+v", located)
	}
}
