package adapters

import (
	"time"

	"jobsingest/internal/table"
	"jobsingest/pkg/contracts/domain"
)

// Adapter reconciles one known source sheet into unified events.
type Adapter interface {
	// Sheet returns the workbook sheet the adapter reads, also used as the provenance tag.
	Sheet() string
	// Adapt converts the sheet. A nil or empty table yields an empty Result.
	Adapt(t *table.Table) Result
}

// Result is the outcome of adapting one sheet
type Result struct {
	Sheet   string
	Events  []domain.Event
	Read    int // data rows seen
	Dropped int // rows missing an essential field
}

// Empty reports whether the adapter produced no events
func (r Result) Empty() bool {
	return len(r.Events) == 0
}

// Default returns the adapters in unification order: jobs_like, rides_trips, eats_orders.
func Default(defaultCityID int64) []Adapter {
	return []Adapter{
		NewJobsLike(defaultCityID),
		NewRidesTrips(),
		NewEatsOrders(),
	}
}

// columns is the reconciled, still optional, view of one sheet
type columns struct {
	city     []table.Optional[int64]
	zone     table.Column
	ts       []table.Optional[time.Time]
	userType table.Column
}

// build emits one event per row holding every field, counting the rest as dropped.
func (c columns) build(sheet string, n int) Result {
	res := Result{Sheet: sheet, Read: n}
	for i := 0; i < n; i++ {
		if !c.city[i].Valid || !c.zone[i].Valid || !c.ts[i].Valid || !c.userType[i].Valid {
			res.Dropped++
			continue
		}
		res.Events = append(res.Events, domain.Event{
			CityID:      c.city[i].Value,
			Zone:        c.zone[i].Value,
			TS:          c.ts[i].Value,
			UserType:    c.userType[i].Value,
			JobsLike:    1.0,
			SourceSheet: sheet,
		})
	}
	return res
}

func constant(n int, v string) table.Column {
	col := make(table.Column, n)
	for i := range col {
		col[i] = table.Some(v)
	}
	return col
}
