package sorting

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownField = errors.New("unknown sort field")

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d Direction) invert() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Step is one key of a composite sort over a storage field.
type Step struct {
	Field     string
	Direction Direction
}

// Translate turns "name desc, age" into storage sort steps.
//
// Clauses are applied in the order given: the first is the primary key and
// later ones break ties. A clause is a field name optionally followed by
// "desc" (any case). A mapping with several destination fields expands into
// one step per field, and a reverting mapping inverts the direction.
// An empty orderBy yields no steps.
func Translate(orderBy string, table *Table) ([]Step, error) {
	if strings.TrimSpace(orderBy) == "" {
		return nil, nil
	}

	var steps []Step
	for _, clause := range strings.Split(orderBy, ",") {
		tokens := strings.Fields(clause)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%w: empty clause in %q", ErrUnknownField, orderBy)
		}

		mapping, ok := table.Lookup(tokens[0])
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, tokens[0])
		}

		dir := Ascending
		if len(tokens) > 1 && strings.EqualFold(tokens[1], "desc") {
			dir = Descending
		}
		if mapping.Revert {
			dir = dir.invert()
		}

		for _, dest := range mapping.DestinationProperties {
			steps = append(steps, Step{Field: dest, Direction: dir})
		}
	}

	return steps, nil
}
