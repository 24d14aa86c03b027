package sorting

import "strings"

// PropertyMapping maps one public sort name onto the storage fields that back it.
// Revert flips the requested direction, for public fields that sort opposite to
// their storage (age ascending is date of birth descending).
type PropertyMapping struct {
	DestinationProperties []string
	Revert                bool
}

// Table is a case-insensitive lookup of PropertyMappings for one resource/entity pair.
type Table struct {
	entries map[string]PropertyMapping
}

func NewTable(entries map[string]PropertyMapping) *Table {
	t := &Table{entries: make(map[string]PropertyMapping, len(entries))}
	for name, m := range entries {
		t.entries[strings.ToLower(name)] = m
	}
	return t
}

func (t *Table) Lookup(name string) (PropertyMapping, bool) {
	m, ok := t.entries[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ValidMappingExistsFor reports whether every clause of orderBy names a mapped field.
func (t *Table) ValidMappingExistsFor(orderBy string) bool {
	_, err := Translate(orderBy, t)
	return err == nil
}
