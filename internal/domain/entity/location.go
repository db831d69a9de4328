package entity

import "time"

// Location types. Free-form in the database; these cover the fleet.
const (
	LocationTypeWarehouse = "warehouse"
	LocationTypeVehicle   = "vehicle"
	LocationTypeDepot     = "depot"
)

// Location represents a physical place that holds stock (warehouse, vehicle, depot).
// Same lifecycle discipline as Product: soft-disable only while referenced.
type Location struct {
	ID           string
	Name         string
	Type         string
	LicensePlate *string // vehicles only
	Description  string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
