package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <key>...",
		Short: "Retrieve one row by primary key",
		Long: "Retrieve one row by primary key. Composite keys take one value\n" +
			"per key column, in declaration order.",
		Args: cobra.MinimumNArgs(2),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	table, release, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer release()

	row, err := table.GetByID(parseKey(args[1:]))
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("no row in %s with key %v", args[0], args[1:])
	}
	return printRow(cmd, row)
}
