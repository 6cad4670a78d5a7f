package pipeline

import (
	"math"
	"sort"
	"time"

	"jobsingest/pkg/contracts/domain"
)

// Aggregator floors event timestamps to fixed-width buckets and sums jobs_like
// per (city, zone, bucket, user type, source sheet).
type Aggregator struct {
	width time.Duration
}

// maxMinutes is the widest bucket a time.Duration can hold
const maxMinutes = int64(math.MaxInt64 / int64(time.Minute))

// NewAggregator creates an aggregator for buckets of the given width in
// minutes. A width of zero or less disables bucketing; widths past what a
// time.Duration holds are clamped.
func NewAggregator(minutes int) *Aggregator {
	if minutes < 0 {
		minutes = 0
	}
	if int64(minutes) > maxMinutes {
		return &Aggregator{width: time.Duration(maxMinutes) * time.Minute}
	}
	return &Aggregator{width: time.Duration(minutes) * time.Minute}
}

// Enabled reports whether Apply buckets events
func (a *Aggregator) Enabled() bool {
	return a.width > 0
}

// Floor returns the start of the bucket containing ts. Buckets are anchored at
// the Unix epoch, so every width that divides a day lines up with midnight UTC.
func (a *Aggregator) Floor(ts time.Time) time.Time {
	if !a.Enabled() {
		return ts
	}
	w := int64(a.width / time.Second)
	sec := ts.Unix()
	rem := sec % w
	if rem < 0 {
		rem += w
	}
	return time.Unix(sec-rem, 0).UTC()
}

// groupKey mirrors domain.EventKey with the timestamp as Unix seconds so map
// equality does not depend on time.Time internals.
type groupKey struct {
	cityID      int64
	zone        string
	ts          int64
	userType    string
	sourceSheet string
}

// Apply returns the aggregated events ordered by key. When bucketing is
// disabled it returns a copy of events unchanged.
func (a *Aggregator) Apply(events []domain.Event) []domain.Event {
	if !a.Enabled() {
		return append([]domain.Event(nil), events...)
	}

	sums := make(map[groupKey]*domain.Event, len(events))
	for _, ev := range events {
		bucket := a.Floor(ev.TS)
		k := groupKey{
			cityID:      ev.CityID,
			zone:        ev.Zone,
			ts:          bucket.Unix(),
			userType:    ev.UserType,
			sourceSheet: ev.SourceSheet,
		}
		if agg, ok := sums[k]; ok {
			agg.JobsLike += ev.JobsLike
			continue
		}
		agg := ev
		agg.TS = bucket
		sums[k] = &agg
	}

	out := make([]domain.Event, 0, len(sums))
	for _, agg := range sums {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}
