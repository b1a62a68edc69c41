package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rowgate/internal/gateway"
)

// parseAssignments parses col=value arguments. Values that read as
// integers or floats bind as numbers; everything else stays text.
func parseAssignments(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, a := range args {
		col, raw, ok := strings.Cut(a, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("expected col=value, got %q", a)
		}
		fields[col] = parseValue(raw)
	}
	return fields, nil
}

func parseValue(raw string) any {
	if raw == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// parseKey turns key arguments into a GetByID argument: one value stays
// scalar, several form a positional sequence.
func parseKey(args []string) any {
	if len(args) == 1 {
		return parseValue(args[0])
	}
	key := make([]any, len(args))
	for i, a := range args {
		key[i] = parseValue(a)
	}
	return key
}

// rowFields extracts a row's current values keyed by column name.
func rowFields(row *gateway.Row) map[string]any {
	out := make(map[string]any)
	for _, col := range row.Columns() {
		v, err := row.Get(col)
		if err != nil {
			continue
		}
		out[col] = displayValue(v)
	}
	return out
}

// displayValue renders engine byte slices as text for output.
func displayValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// printRow writes one row in the selected output mode.
func printRow(cmd *cobra.Command, row *gateway.Row) error {
	fields := rowFields(row)
	if flags.jsonMode {
		return printJSON(cmd, fields)
	}
	for _, col := range row.Columns() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", col, fields[col])
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
