package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newInsertCmd() *cobra.Command {
	var genID bool
	cmd := &cobra.Command{
		Use:   "insert <table> col=value...",
		Short: "Insert a row",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, args[0], args[1:], genID)
		},
	}
	cmd.Flags().BoolVar(&genID, "gen-id", false, "generate a UUID v7 for an unsupplied text primary key")
	return cmd
}

func runInsert(cmd *cobra.Command, name string, assignments []string, genID bool) error {
	table, release, err := openTable(name)
	if err != nil {
		return err
	}
	defer release()

	fields, err := parseAssignments(assignments)
	if err != nil {
		return err
	}

	if genID {
		pk, err := table.PrimaryKey()
		if err != nil {
			return err
		}
		if len(pk) != 1 {
			return fmt.Errorf("--gen-id needs a single-column primary key")
		}
		if _, supplied := fields[pk[0]]; !supplied {
			fields[pk[0]] = uuid.Must(uuid.NewV7()).String()
		}
	}

	row, err := table.CreateRow(fields)
	if err != nil {
		return err
	}
	if _, err := row.Save(); err != nil {
		return err
	}
	return printRow(cmd, row)
}
