package domain

import (
	"time"
)

// Source sheet names. They double as the provenance tag written to source_sheet.
const (
	SheetJobsLike   = "jobs_like"
	SheetRidesTrips = "rides_trips"
	SheetEatsOrders = "eats_orders"
)

// Canonical user types
const (
	UserTypeRides   = "rides"
	UserTypeFood    = "food"
	UserTypeUnknown = "unknown"
)

// TimestampLayout is the output format of Event.TS
const TimestampLayout = "2006-01-02T15:04:05Z"

// Event is one unified job event, either a single source row or an aggregate
// of several rows sharing the same EventKey.
type Event struct {
	CityID      int64     `json:"city_id" csv:"city_id"`
	Zone        string    `json:"zone" csv:"zone"`
	TS          time.Time `json:"ts" csv:"ts"`
	UserType    string    `json:"user_type" csv:"user_type"`
	JobsLike    float64   `json:"jobs_like" csv:"jobs_like"`
	SourceSheet string    `json:"source_sheet" csv:"source_sheet"`
}

// EventKey is the grouping key used by bucketing
type EventKey struct {
	CityID      int64
	Zone        string
	TS          time.Time
	UserType    string
	SourceSheet string
}

// Key returns the grouping key of the event
func (e Event) Key() EventKey {
	return EventKey{
		CityID:      e.CityID,
		Zone:        e.Zone,
		TS:          e.TS,
		UserType:    e.UserType,
		SourceSheet: e.SourceSheet,
	}
}

// Less orders keys by city, zone, timestamp, user type and source sheet.
func (k EventKey) Less(o EventKey) bool {
	if k.CityID != o.CityID {
		return k.CityID < o.CityID
	}
	if k.Zone != o.Zone {
		return k.Zone < o.Zone
	}
	if !k.TS.Equal(o.TS) {
		return k.TS.Before(o.TS)
	}
	if k.UserType != o.UserType {
		return k.UserType < o.UserType
	}
	return k.SourceSheet < o.SourceSheet
}

// SourceSheets lists the recognized sheets in unification order.
func SourceSheets() []string {
	return []string{SheetJobsLike, SheetRidesTrips, SheetEatsOrders}
}
