package cli

import (
	"github.com/spf13/cobra"
)

type listFlags struct {
	fields []string
	order  []string
	limit  int64
	offset int64
}

func newListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], lf)
		},
	}
	cmd.Flags().StringSliceVar(&lf.fields, "fields", nil, "restrict to these columns (rows become read-only)")
	cmd.Flags().StringSliceVar(&lf.order, "order", nil, "ORDER BY terms")
	cmd.Flags().Int64Var(&lf.limit, "limit", 0, "maximum row count (0 = no limit)")
	cmd.Flags().Int64Var(&lf.offset, "offset", 0, "rows to skip")
	return cmd
}

func runList(cmd *cobra.Command, name string, lf listFlags) error {
	table, release, err := openTable(name)
	if err != nil {
		return err
	}
	defer release()

	rows, err := table.GetAll(lf.fields, lf.order, lf.limit, lf.offset)
	if err != nil {
		return err
	}

	if flags.jsonMode {
		out := make([]map[string]any, len(rows))
		for i, r := range rows {
			out[i] = rowFields(r)
		}
		return printJSON(cmd, out)
	}
	for i, r := range rows {
		if i > 0 {
			cmd.Println()
		}
		if err := printRow(cmd, r); err != nil {
			return err
		}
	}
	return nil
}
