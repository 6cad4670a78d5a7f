package adapters

import (
	"strconv"

	"jobsingest/internal/normalize"
	"jobsingest/internal/table"
	"jobsingest/pkg/contracts/domain"
)

// jobs_like column names
const (
	colBeginHex      = "begin_checkpoint.actual_location_hexagon_id9"
	colEndHex        = "end_checkpoint.actual_location_hexagon_id9"
	colBeginATA      = "begin_checkpoint.ata_utc"
	colEndATA        = "end_checkpoint.ata_utc"
	colDateStr       = "datestr"
	colBeginCity     = "begin_checkpoint.city_id"
	colEndCity       = "end_checkpoint.city_id"
	colMarketplace   = "marketplace"
	colProductType   = "product_type_name"
	colGlobalProduct = "global_product_name"
)

// JobsLike adapts the jobs_like sheet, where every field may come from a
// begin checkpoint, an end checkpoint or a generic fallback.
type JobsLike struct {
	defaultCityID int64
}

// NewJobsLike creates the jobs_like adapter. defaultCityID fills rows without a city.
func NewJobsLike(defaultCityID int64) *JobsLike {
	return &JobsLike{defaultCityID: defaultCityID}
}

// Sheet implements Adapter
func (a *JobsLike) Sheet() string {
	return domain.SheetJobsLike
}

// Adapt implements Adapter
func (a *JobsLike) Adapt(t *table.Table) Result {
	n := t.Len()
	if n == 0 {
		return Result{Sheet: a.Sheet()}
	}

	zone := normalize.Prefer(n, t.Column(colBeginHex), t.Column(colEndHex))
	ts := normalize.Prefer(n, t.Column(colBeginATA), t.Column(colEndATA), t.Column(colDateStr))
	// One rule whether the city columns are absent or only partly filled:
	// begin, then end, then the configured default.
	city := normalize.FillDefault(
		normalize.Prefer(n, t.Column(colBeginCity), t.Column(colEndCity)),
		strconv.FormatInt(a.defaultCityID, 10),
	)
	userType := normalize.FillDefault(
		normalize.UserTypes(normalize.Prefer(n, t.Column(colMarketplace), t.Column(colProductType), t.Column(colGlobalProduct))),
		domain.UserTypeUnknown,
	)

	return columns{
		city:     normalize.CityIDs(city),
		zone:     normalize.Zones(zone),
		ts:       normalize.Timestamps(ts),
		userType: userType,
	}.build(a.Sheet(), n)
}
