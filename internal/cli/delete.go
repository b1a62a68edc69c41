package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <key>",
		Short: "Delete one row by primary key",
		Args:  cobra.ExactArgs(2),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
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
	affected, err := row.Delete()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d row(s)\n", affected)
	return nil
}
