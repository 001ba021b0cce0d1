// Package geo loads the building reference workbook and enriches work
// orders with coordinates.
package geo

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// HeaderRows is the fixed number of rows above the data in the reference
// workbook.
const HeaderRows = 1

// Fixed column positions in the reference workbook.
const (
	colBuildingID = iota
	colName
	colAddress
	colSiteID
	colLatitude
	colLongitude
	columnCount
)

// UnknownBuildingError reports a work order referencing a building id that
// the reference workbook does not contain.
type UnknownBuildingError struct {
	BuildingID string
	OrderID    string
}

func (e *UnknownBuildingError) Error() string {
	return fmt.Sprintf("geo: work order %s references unknown building %q", e.OrderID, e.BuildingID)
}

// Directory is an immutable lookup of building geo records keyed by
// building id. Build it once with LoadWorkbook and share it freely.
type Directory struct {
	records map[string]models.BuildingGeo
}

// LoadWorkbook parses the reference spreadsheet into a Directory.
func LoadWorkbook(path string) (*Directory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("geo: failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("geo: workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("geo: failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= HeaderRows {
		return nil, fmt.Errorf("geo: workbook %s has no data rows", path)
	}

	records := make(map[string]models.BuildingGeo, len(rows)-HeaderRows)
	for i, row := range rows[HeaderRows:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("geo: row %d: %w", i+HeaderRows+1, err)
		}
		records[rec.BuildingID] = rec
	}

	return &Directory{records: records}, nil
}

func parseRow(row []string) (models.BuildingGeo, error) {
	var rec models.BuildingGeo

	if len(row) < columnCount {
		return rec, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}
	if row[colBuildingID] == "" {
		return rec, fmt.Errorf("empty building id")
	}

	lat, err := strconv.ParseFloat(row[colLatitude], 64)
	if err != nil {
		return rec, fmt.Errorf("invalid latitude %q: %w", row[colLatitude], err)
	}
	lon, err := strconv.ParseFloat(row[colLongitude], 64)
	if err != nil {
		return rec, fmt.Errorf("invalid longitude %q: %w", row[colLongitude], err)
	}

	rec = models.BuildingGeo{
		BuildingID: row[colBuildingID],
		Name:       row[colName],
		Address:    row[colAddress],
		SiteID:     row[colSiteID],
		Latitude:   lat,
		Longitude:  lon,
	}
	return rec, nil
}

// Lookup returns the geo record for a building id.
func (d *Directory) Lookup(buildingID string) (models.BuildingGeo, bool) {
	rec, ok := d.records[buildingID]
	return rec, ok
}

// Len returns the number of buildings in the directory.
func (d *Directory) Len() int {
	return len(d.records)
}

// Join attaches latitude, longitude and building name to every order. A
// work order whose building id is absent from the directory is a defined
// error, never a silent zero value.
func (d *Directory) Join(orders []models.WorkOrder) ([]models.LocatedOrder, error) {
	located := make([]models.LocatedOrder, 0, len(orders))
	for _, wo := range orders {
		rec, ok := d.records[wo.BuildingID]
		if !ok {
			return nil, &UnknownBuildingError{BuildingID: wo.BuildingID, OrderID: wo.ID}
		}
		located = append(located, models.LocatedOrder{
			WorkOrder:    wo,
			BuildingName: rec.Name,
			Latitude:     rec.Latitude,
			Longitude:    rec.Longitude,
		})
	}
	return located, nil
}
