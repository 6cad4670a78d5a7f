package normalize

import (
	"math"
	"strconv"
	"strings"

	"jobsingest/internal/table"
)

// ParseCityID coerces a city value to an integer. Numeric text such as "5",
// " 5 " or "5.0" is accepted and truncated toward zero; anything else, including
// NaN and infinities, is rejected.
func ParseCityID(s string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// CityIDs coerces every value of col with ParseCityID.
func CityIDs(col table.Column) []table.Optional[int64] {
	out := make([]table.Optional[int64], len(col))
	for i, v := range col {
		if !v.Valid {
			continue
		}
		if id, ok := ParseCityID(v.Value); ok {
			out[i] = table.Some(id)
		}
	}
	return out
}

// Zones trims every zone identifier. Values that are blank after trimming are missing.
func Zones(col table.Column) table.Column {
	out := make(table.Column, len(col))
	for i, v := range col {
		if !v.Valid {
			continue
		}
		if z := strings.TrimSpace(v.Value); z != "" {
			out[i] = table.Some(z)
		}
	}
	return out
}
