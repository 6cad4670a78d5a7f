package pipeline

import (
	"jobsingest/internal/adapters"
	"jobsingest/internal/errors"
	"jobsingest/pkg/contracts/domain"
)

// Unify concatenates adapter outputs in the order given, keeping row order
// within each. It fails with ErrNoUsableData when every result is empty.
func Unify(results ...adapters.Result) ([]domain.Event, error) {
	total := 0
	for _, r := range results {
		total += len(r.Events)
	}
	if total == 0 {
		return nil, errors.ErrNoUsableData
	}

	out := make([]domain.Event, 0, total)
	for _, r := range results {
		out = append(out, r.Events...)
	}
	return out, nil
}
