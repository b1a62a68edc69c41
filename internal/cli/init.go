package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rowgate/internal/paths"
	"github.com/mesh-intelligence/rowgate/internal/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize rowgate configuration",
		Long:  "Create the configuration directory with a default config.yaml and touch the database file.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dbPath, err := paths.ResolveDatabase(flags.database, v.GetString(cfgKeyDatabase))
	if err != nil {
		return err
	}

	conn, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	// sql.Open is lazy; run a statement so the file actually exists.
	st, err := conn.Prepare("SELECT 1")
	if err != nil {
		conn.Close()
		return err
	}
	rs, err := st.Query()
	if err != nil {
		st.Close()
		conn.Close()
		return err
	}
	rs.Close()
	st.Close()
	if err := conn.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rowgate initialized (config: %s, database: %s)\n", configDir, dbPath)
	return nil
}
