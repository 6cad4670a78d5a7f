package normalize

import (
	"strings"

	"jobsingest/internal/table"
	"jobsingest/pkg/contracts/domain"
)

// userTypeAliases maps lower-cased marketplace/product labels to canonical user types.
// Read-only after init.
var userTypeAliases = map[string]string{
	"ridesharing":   domain.UserTypeRides,
	"ride":          domain.UserTypeRides,
	"rides":         domain.UserTypeRides,
	"taxi":          domain.UserTypeRides,
	"uberx":         domain.UserTypeRides,
	"uber":          domain.UserTypeRides,
	"food_delivery": domain.UserTypeFood,
	"food":          domain.UserTypeFood,
	"eats":          domain.UserTypeFood,
	"delivery":      domain.UserTypeFood,
	"courier":       domain.UserTypeFood,
}

// UserType maps a raw category label to its canonical user type. Labels not in
// the alias table are returned trimmed and lower-cased. A missing label stays
// missing so callers can tell "not reported" apart from uncommon text.
func UserType(v table.Optional[string]) table.Optional[string] {
	if !v.Valid {
		return v
	}
	s := strings.ToLower(strings.TrimSpace(v.Value))
	if canonical, ok := userTypeAliases[s]; ok {
		return table.Some(canonical)
	}
	return table.Some(s)
}

// UserTypes applies UserType to every value of col.
func UserTypes(col table.Column) table.Column {
	out := make(table.Column, len(col))
	for i, v := range col {
		out[i] = UserType(v)
	}
	return out
}
