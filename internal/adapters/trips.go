package adapters

import (
	"jobsingest/internal/normalize"
	"jobsingest/internal/table"
	"jobsingest/pkg/contracts/domain"
)

// rides_trips / eats_orders column names
const (
	colPickupHex = "pickup_hex_id9"
	colDropHex   = "drop_hex_id9"
	colStartTime = "start_time"
	colCityID    = "city_id"
)

// TripSheet adapts a trip-shaped sheet whose rows all belong to one user type.
type TripSheet struct {
	sheet    string
	userType string
}

// NewRidesTrips creates the rides_trips adapter
func NewRidesTrips() *TripSheet {
	return &TripSheet{sheet: domain.SheetRidesTrips, userType: domain.UserTypeRides}
}

// NewEatsOrders creates the eats_orders adapter
func NewEatsOrders() *TripSheet {
	return &TripSheet{sheet: domain.SheetEatsOrders, userType: domain.UserTypeFood}
}

// Sheet implements Adapter
func (a *TripSheet) Sheet() string {
	return a.sheet
}

// Adapt implements Adapter
func (a *TripSheet) Adapt(t *table.Table) Result {
	n := t.Len()
	if n == 0 {
		return Result{Sheet: a.sheet}
	}

	zone := normalize.Prefer(n, t.Column(colPickupHex), t.Column(colDropHex))
	// No fallback chains for start time and city; Prefer only pads absent columns.
	ts := normalize.Prefer(n, t.Column(colStartTime))
	city := normalize.Prefer(n, t.Column(colCityID))

	return columns{
		city:     normalize.CityIDs(city),
		zone:     normalize.Zones(zone),
		ts:       normalize.Timestamps(ts),
		userType: constant(n, a.userType),
	}.build(a.sheet, n)
}
