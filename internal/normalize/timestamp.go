package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"jobsingest/internal/table"
)

// ParseUTC parses a timestamp in any of the common textual layouts. Values
// with an explicit zone or offset are converted to UTC; values without one are
// taken as UTC.
func ParseUTC(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Timestamps parses every value of col; failures become missing.
func Timestamps(col table.Column) []table.Optional[time.Time] {
	out := make([]table.Optional[time.Time], len(col))
	for i, v := range col {
		if !v.Valid {
			continue
		}
		if t, ok := ParseUTC(v.Value); ok {
			out[i] = table.Some(t)
		}
	}
	return out
}
