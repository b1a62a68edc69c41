package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show a table's discovered schema",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}
}

func runDescribe(cmd *cobra.Command, args []string) error {
	table, release, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer release()

	schema, err := table.Schema()
	if err != nil {
		return err
	}

	if flags.jsonMode {
		return printJSON(cmd, schema)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-12s %-8s %-6s %-8s %s\n",
		"COLUMN", "TYPE", "NULL", "KEY", "IDENT", "DEFAULT")
	for _, c := range schema.Columns {
		null, key, ident := "NO", "", ""
		if c.Nullable {
			null = "YES"
		}
		if c.Primary {
			key = fmt.Sprintf("PRI:%d", c.PrimaryPosition)
		}
		if c.Identity {
			ident = "auto"
		}
		typ := c.Type
		switch {
		case c.Length > 0:
			typ = fmt.Sprintf("%s(%d)", c.Type, c.Length)
		case c.Precision > 0:
			typ = fmt.Sprintf("%s(%d,%d)", c.Type, c.Precision, c.Scale)
		}
		if c.Unsigned {
			typ += " unsigned"
		}
		def := ""
		if c.Default != nil {
			def = fmt.Sprint(displayValue(c.Default))
		}
		fmt.Fprintf(out, "%-20s %-12s %-8s %-6s %-8s %s\n",
			c.Name, typ, null, key, ident, def)
	}
	return nil
}
