package driver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Schema introspection. DescribeTable issues DESCRIBE <table> on the
// session; the Conn must answer with one row per column carrying
// Field, Type, Null, Key, Default, and Extra values in declaration
// order, the shape a MySQL-compatible engine reports.

var (
	charRe    = regexp.MustCompile(`^(var)?char\((\d+)\)`)
	decimalRe = regexp.MustCompile(`^(decimal|float|double)\((\d+),\s*(\d+)\)`)
	intRe     = regexp.MustCompile(`^((?:big|medium|small|tiny)?int)(?:\(\d+\))?`)
)

// DescribeTable discovers the named table's schema. An empty result is
// a SchemaError naming the table.
func (d *Driver) DescribeTable(name string) (*types.TableSchema, error) {
	if err := d.open("DESCRIBE "+name, types.OpSelect, nil); err != nil {
		return nil, err
	}
	cols, raw, err := d.fetchRaw(-1)
	if err != nil {
		return nil, err
	}
	d.finish()
	if len(raw) == 0 {
		return nil, &types.SchemaError{Table: name}
	}

	schema := &types.TableSchema{Table: name}
	keyPos := 0
	for _, row := range raw {
		m := zip(cols, row)
		col := types.ColumnMetadata{
			Name:            asString(m["Field"]),
			Nullable:        strings.EqualFold(asString(m["Null"]), "YES"),
			Default:         m["Default"],
			PrimaryPosition: -1,
		}
		parseDeclaredType(asString(m["Type"]), &col)
		// Key ordinals follow column-declaration order: the first key
		// column gets position 0.
		if strings.EqualFold(asString(m["Key"]), "PRI") {
			col.Primary = true
			col.PrimaryPosition = keyPos
			keyPos++
		}
		if strings.Contains(strings.ToLower(asString(m["Extra"])), "auto_increment") {
			col.Identity = true
		}
		schema.Columns = append(schema.Columns, col)
	}
	return schema, nil
}

// parseDeclaredType normalizes a declared type string into a base type
// plus length or precision/scale. Unsigned is a keyword anywhere in the
// string.
func parseDeclaredType(decl string, col *types.ColumnMetadata) {
	lower := strings.ToLower(strings.TrimSpace(decl))
	col.Unsigned = strings.Contains(lower, "unsigned")

	if m := charRe.FindStringSubmatch(lower); m != nil {
		col.Type = m[1] + "char"
		col.Length, _ = strconv.Atoi(m[2])
		return
	}
	if m := decimalRe.FindStringSubmatch(lower); m != nil {
		col.Type = m[1]
		col.Precision, _ = strconv.Atoi(m[2])
		col.Scale, _ = strconv.Atoi(m[3])
		return
	}
	if m := intRe.FindStringSubmatch(lower); m != nil {
		col.Type = m[1]
		return
	}
	// Anything else keeps its bare base type.
	base := lower
	if i := strings.IndexAny(base, "( "); i >= 0 {
		base = base[:i]
	}
	col.Type = base
}

// asString renders a fetched value as text. Engines report schema rows
// as strings or byte slices.
func asString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
