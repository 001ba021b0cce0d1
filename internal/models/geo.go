package models

// BuildingGeo is one row of the building reference workbook: the
// coordinates and display name for a building identifier. Records are
// loaded once and treated as immutable.
type BuildingGeo struct {
	BuildingID string  `json:"bl_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	SiteID     string  `json:"site_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// LocatedOrder is a work order enriched with its building's coordinates.
type LocatedOrder struct {
	WorkOrder
	BuildingName string  `json:"building_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}
