package metadata

import "sort"

// Store indexes RDB$FIELDS entries by field name so column types can be
// resolved without rescanning the catalog for every column.
type Store struct {
	fields map[string]FieldEntry
}

func NewStore() *Store {
	return &Store{
		fields: make(map[string]FieldEntry),
	}
}

// Add records a field definition. A later entry with the same name replaces
// the earlier one.
func (s *Store) Add(entry FieldEntry) {
	s.fields[entry.Name] = entry
}

func (s *Store) Lookup(name string) (FieldEntry, bool) {
	entry, ok := s.fields[name]
	return entry, ok
}

func (s *Store) Len() int {
	return len(s.fields)
}

// Names returns the indexed field names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
