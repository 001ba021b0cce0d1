package geo

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// writeWorkbook creates a reference workbook fixture and returns its path.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := []any{"Building ID", "Name", "Address", "Site ID", "Latitude", "Longitude"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("Failed to write header row: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+HeaderRows+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "buildings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

func testWorkbook(t *testing.T) string {
	t.Helper()
	return writeWorkbook(t, [][]any{
		{"B001", "City Hall", "100 Holliday St", "S01", "39.2904", "-76.6122"},
		{"B002", "Courthouse East", "111 N Calvert St", "S01", "39.2912", "-76.6107"},
	})
}

func TestLoadWorkbook(t *testing.T) {
	dir, err := LoadWorkbook(testWorkbook(t))
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}

	if dir.Len() != 2 {
		t.Fatalf("Expected 2 buildings, got %d", dir.Len())
	}

	rec, ok := dir.Lookup("B001")
	if !ok {
		t.Fatal("Expected B001 to be present")
	}
	if rec.Name != "City Hall" {
		t.Errorf("Expected name City Hall, got %q", rec.Name)
	}
	if rec.Latitude != 39.2904 || rec.Longitude != -76.6122 {
		t.Errorf("Unexpected coordinates: %v, %v", rec.Latitude, rec.Longitude)
	}
	if rec.SiteID != "S01" {
		t.Errorf("Expected site S01, got %q", rec.SiteID)
	}

	if _, ok := dir.Lookup("B999"); ok {
		t.Error("Expected B999 to be absent")
	}
}

func TestLoadWorkbookBadCoordinates(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"B001", "City Hall", "100 Holliday St", "S01", "not-a-number", "-76.6122"},
	})

	if _, err := LoadWorkbook(path); err == nil {
		t.Fatal("Expected error for unparseable latitude")
	}
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	if _, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Fatal("Expected error for missing workbook")
	}
}

func TestLoadWorkbookNoData(t *testing.T) {
	path := writeWorkbook(t, nil)
	if _, err := LoadWorkbook(path); err == nil {
		t.Fatal("Expected error for workbook with only header rows")
	}
}

func TestJoin(t *testing.T) {
	dir, err := LoadWorkbook(testWorkbook(t))
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}

	orders := []models.WorkOrder{
		{ID: "WO-1", BuildingID: "B001", ProbType: "HVAC", DateRequested: time.Now()},
		{ID: "WO-2", BuildingID: "B002", ProbType: "BOILER", DateRequested: time.Now()},
		{ID: "WO-3", BuildingID: "B001", ProbType: "HVAC", DateRequested: time.Now()},
	}

	located, err := dir.Join(orders)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(located) != 3 {
		t.Fatalf("Expected 3 located orders, got %d", len(located))
	}

	for _, lo := range located {
		rec, _ := dir.Lookup(lo.BuildingID)
		if lo.Latitude != rec.Latitude || lo.Longitude != rec.Longitude || lo.BuildingName != rec.Name {
			t.Errorf("Order %s geo values do not match reference record %q", lo.ID, lo.BuildingID)
		}
	}
}

func TestJoinUnknownBuilding(t *testing.T) {
	dir, err := LoadWorkbook(testWorkbook(t))
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}

	orders := []models.WorkOrder{
		{ID: "WO-1", BuildingID: "B001"},
		{ID: "WO-9", BuildingID: "B404"},
	}

	_, err = dir.Join(orders)
	if err == nil {
		t.Fatal("Expected error for unknown building id")
	}

	var unknownErr *UnknownBuildingError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *UnknownBuildingError, got %T", err)
	}
	if unknownErr.BuildingID != "B404" || unknownErr.OrderID != "WO-9" {
		t.Errorf("Unexpected error details: %+v", unknownErr)
	}
}
