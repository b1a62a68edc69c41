package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <table> <key> col=value...",
		Short: "Update fields of one row",
		Long: "Update fields of one row selected by primary key. Composite keys\n" +
			"take a comma-separated value list in declaration order.",
		Args: cobra.MinimumNArgs(3),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	table, release, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer release()

	row, err := table.GetByID(parseKey(strings.Split(args[1], ",")))
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("no row in %s with key %s", args[0], args[1])
	}

	fields, err := parseAssignments(args[2:])
	if err != nil {
		return err
	}
	for col, val := range fields {
		if err := row.Set(col, val); err != nil {
			return err
		}
	}
	if _, err := row.Save(); err != nil {
		return err
	}
	return printRow(cmd, row)
}
