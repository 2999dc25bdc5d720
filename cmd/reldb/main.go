// Command reldb is the CLI driver for the relational table engine
// implemented under internal/catalog, internal/table, internal/btree and
// internal/condition: one subcommand per Database statement, plus a
// `repl` subcommand that hands stdin/stdout to internal/repl.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reldb/reldb/internal/catalog"
	"github.com/reldb/reldb/internal/config"
	"github.com/reldb/reldb/internal/dbglog"
)

var (
	dbName     string
	dbDirFlag  string
	configPath string
	jsonOutput bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reldb",
	Short: "A small relational table engine with B-tree-accelerated lookups",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(configPath); err != nil {
			return err
		}
		if dbDirFlag != "" {
			config.Set("db-dir", dbDirFlag)
		}
		if jsonOutput {
			config.Set("json", true)
		}
		dbglog.SetVerbose(config.Debug())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "default", "database name")
	rootCmd.PersistentFlags().StringVar(&dbDirFlag, "db-dir", "", "database root directory (overrides RELDB_DB_DIR / config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a reldb config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "render statement results as JSON instead of a table")

	rootCmd.AddCommand(
		createTableCmd,
		dropTableCmd,
		insertCmd,
		updateCmd,
		deleteCmd,
		selectCmd,
		sortCmd,
		castCmd,
		joinCmd,
		createIndexCmd,
		lockCmd,
		unlockCmd,
		isLockedCmd,
		importCmd,
		exportCmd,
		showCmd,
		replCmd,
	)
}

// openDatabase resolves <db-dir>/<name>_db and loads it (an empty
// directory is a freshly created, empty database).
func openDatabase() (*catalog.Database, error) {
	dir := filepath.Join(config.DBDir(), dbName+"_db")
	return catalog.LoadDatabase(dbName, dir)
}
