// Package cli implements the rowgate command-line interface: generic,
// schema-driven CRUD over the tables of one database.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rowgate/internal/driver"
	"github.com/mesh-intelligence/rowgate/internal/gateway"
	"github.com/mesh-intelligence/rowgate/internal/paths"
	"github.com/mesh-intelligence/rowgate/internal/sqlite"
	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	database  string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "rowgate" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rowgate",
		Short: "Schema-driven CRUD for relational tables",
		Long: "Rowgate discovers table schemas at runtime and provides generic\n" +
			"row-level CRUD without per-table code.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.database, "db", "", "database file (default: from config.yaml)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newInsertCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// openSession resolves config, opens the database session, and returns
// the driver plus a release func.
func openSession() (*driver.Driver, func(), error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := paths.ResolveDatabase(flags.database, v.GetString(cfgKeyDatabase))
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database: %w", err)
	}

	cfg := types.Config{Driver: v.GetString(cfgKeyDriver), Database: dbPath}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	conn, err := sqlite.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	drv := driver.New(conn)
	return drv, func() { _ = drv.Close() }, nil
}

// openTable opens a session and a gateway for the named table.
func openTable(name string) (*gateway.Table, func(), error) {
	drv, release, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	return gateway.New(drv, name), release, nil
}
