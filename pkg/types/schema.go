package types

// ColumnMetadata describes one column as reported by schema discovery.
// Type holds the normalized base type (length and display size stripped);
// the raw declared string is not retained.
type ColumnMetadata struct {
	Name     string
	Type     string
	Nullable bool
	Default  any

	// Length is set for char/varchar columns; Precision and Scale for
	// decimal/float/double columns. Zero means not applicable.
	Length    int
	Precision int
	Scale     int

	Unsigned bool

	// Primary marks key membership. PrimaryPosition is the 0-indexed
	// ordinal within a possibly-composite key, -1 for non-key columns.
	Primary         bool
	PrimaryPosition int

	// Identity is true only when the engine reports the column as
	// auto-incrementing.
	Identity bool
}

// TableSchema holds one table's columns in declaration order.
// A schema is discovered once per gateway instance and memoized for the
// instance's lifetime; it is never invalidated.
type TableSchema struct {
	Table   string
	Columns []ColumnMetadata
}

// Column returns the metadata for the named column.
func (s *TableSchema) Column(name string) (ColumnMetadata, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMetadata{}, false
}

// ColumnNames returns all column names in declaration order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the key column names ordered by ordinal position.
// Empty for tables without a declared key.
func (s *TableSchema) PrimaryKey() []string {
	var key []string
	for pos := 0; ; pos++ {
		found := false
		for _, c := range s.Columns {
			if c.Primary && c.PrimaryPosition == pos {
				key = append(key, c.Name)
				found = true
				break
			}
		}
		if !found {
			return key
		}
	}
}

// Identity returns the auto-increment key column, if any. Identity is
// defined only when the primary key has exactly one auto-increment
// column; composite keys never have an identity.
func (s *TableSchema) Identity() (string, bool) {
	key := s.PrimaryKey()
	if len(key) != 1 {
		return "", false
	}
	c, ok := s.Column(key[0])
	if !ok || !c.Identity {
		return "", false
	}
	return c.Name, true
}
