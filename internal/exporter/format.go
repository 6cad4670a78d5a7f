package exporter

import (
	"strconv"
	"strings"
	"time"

	"jobsingest/pkg/contracts/domain"
)

// formatJobs formats a jobs_like value as a float that always carries a
// decimal point: 1 → "1.0", 2.5 → "2.5".
func formatJobs(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// formatTimestamp formats ts in UTC with second precision and a Z designator
func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(domain.TimestampLayout)
}
