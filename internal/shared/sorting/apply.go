package sorting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lib/pq"
)

// Comparator orders two values by one storage field, like cmp.Compare.
type Comparator[T any] func(a, b T) int

// SortStable sorts items in place by steps. Elements equal on every step keep
// their original order. Every step field must have a comparator.
func SortStable[T any](items []T, steps []Step, comparators map[string]Comparator[T]) error {
	if len(steps) == 0 {
		return nil
	}

	cmps := make([]Comparator[T], len(steps))
	for i, s := range steps {
		c, ok := comparators[s.Field]
		if !ok {
			return fmt.Errorf("%w: no comparator for %q", ErrUnknownField, s.Field)
		}
		cmps[i] = c
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for i, s := range steps {
			r := cmps[i](a, b)
			if r == 0 {
				continue
			}
			if s.Direction == Descending {
				return -r
			}
			return r
		}
		return 0
	})
	return nil
}

// OrderByClauses renders steps as SQL ORDER BY terms with quoted column
// identifiers, e.g. `"first_name" DESC`.
func OrderByClauses(steps []Step, columns map[string]string) ([]string, error) {
	clauses := make([]string, 0, len(steps))
	for _, s := range steps {
		col, ok := columns[s.Field]
		if !ok {
			return nil, fmt.Errorf("%w: no column for %q", ErrUnknownField, s.Field)
		}
		clauses = append(clauses, pq.QuoteIdentifier(col)+" "+strings.ToUpper(s.Direction.String()))
	}
	return clauses, nil
}
