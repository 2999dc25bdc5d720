package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reldb/reldb/internal/printer"
	"github.com/reldb/reldb/internal/repl"
	"github.com/reldb/reldb/internal/table"
)

var createTableCmd = &cobra.Command{
	Use:   "create-table <table> <col:type[,col:type...]>",
	Short: "Create an empty table with the given typed columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, _ := cmd.Flags().GetString("pk")
		names, types, err := parseColumnSpecs(args[1])
		if err != nil {
			return err
		}
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := db.CreateTable(args[0], names, types, nil, pk); err != nil {
			return err
		}
		return db.SaveDatabase()
	},
}

var dropTableCmd = &cobra.Command{
	Use:   "drop-table <table>",
	Short: "Drop a table and any index registered on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := db.DropTable(args[0]); err != nil {
			return err
		}
		return db.SaveDatabase()
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <table> <v1,v2,...>",
	Short: "Insert one row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.InsertInto(args[0], splitCSVValues(args[1]))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <table> <column> <value> <condition>",
	Short: "Update a column on every row matching condition",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.UpdateTable(args[0], args[1], args[2], args[3])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <condition>",
	Short: "Delete every row matching condition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.DeleteFrom(args[0], args[1])
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <table> <column>",
	Short: "Stably sort a table in place by column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetBool("desc")
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.Sort(args[0], args[1], !desc)
	},
}

var castCmd = &cobra.Command{
	Use:   "cast <table> <column> <type>",
	Short: "Cast every slot of column to type",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.Cast(args[0], args[1], args[2])
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <table> [condition]",
	Short: "Project and filter rows from a table or meta-table view",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, _ := cmd.Flags().GetStringSlice("columns")
		orderBy, _ := cmd.Flags().GetString("order-by")
		desc, _ := cmd.Flags().GetBool("desc")
		top, _ := cmd.Flags().GetInt("top")

		cond := ""
		if len(args) == 2 {
			cond = args[1]
		}
		var topK *int
		if cmd.Flags().Changed("top") {
			topK = &top
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		result, err := db.SelectStatement(args[0], columns, cond, orderBy, desc, topK)
		if err != nil {
			return err
		}
		return renderTable(result)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Show every row of a table or meta-table view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		result, err := db.ShowTable(args[0])
		if err != nil {
			return err
		}
		return renderTable(result)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <left> <right> <condition>",
	Short: "Inner-join two tables, picking nested-loop/index-nested-loop/sort-merge automatically",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		db, err := openDatabase()
		if err != nil {
			return err
		}
		result, err := db.Join(mode, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return renderTable(result)
	},
}

var createIndexCmd = &cobra.Command{
	Use:   "create-index <index_name> <table>",
	Short: "Build and persist a B-tree primary-key index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := db.CreateIndex(args[0], args[1]); err != nil {
			return err
		}
		return db.SaveDatabase()
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock <table>",
	Short: "Set the advisory exclusive lock on a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := db.LockTable(args[0]); err != nil {
			return err
		}
		return db.SaveDatabase()
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <table>",
	Short: "Clear the advisory exclusive lock on a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := db.UnlockTable(args[0]); err != nil {
			return err
		}
		return db.SaveDatabase()
	},
}

var isLockedCmd = &cobra.Command{
	Use:   "is-locked <table>",
	Short: "Report whether a table is currently locked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		fmt.Println(db.IsLocked(args[0]))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <table> <csv_path>",
	Short: "Create a table from a CSV file's header and rows",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, _ := cmd.Flags().GetString("pk")
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.ImportTable(args[0], args[1], pk)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <table> <csv_path>",
	Short: "Export a table's live rows to a CSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.Export(args[0], args[1])
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print command loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return repl.Run(db, os.Stdin, os.Stdout)
	},
}

func init() {
	createTableCmd.Flags().String("pk", "", "primary key column name, if any")
	sortCmd.Flags().Bool("desc", false, "sort descending instead of ascending")
	selectCmd.Flags().StringSlice("columns", nil, "columns to project (default: all)")
	selectCmd.Flags().String("order-by", "", "column to sort the result by")
	selectCmd.Flags().Bool("desc", false, "sort the result descending")
	selectCmd.Flags().Int("top", 0, "truncate the result to this many rows")
	joinCmd.Flags().String("mode", "inner", "join mode (only \"inner\" is supported)")
	importCmd.Flags().String("pk", "", "primary key column name, if any")
}

// parseColumnSpecs parses "col:type,col:type,..." into parallel name/type
// slices for create-table.
func parseColumnSpecs(spec string) (names, types []string, err error) {
	for _, part := range strings.Split(spec, ",") {
		nt := strings.SplitN(part, ":", 2)
		if len(nt) != 2 {
			return nil, nil, fmt.Errorf("malformed column spec %q: expected col:type", part)
		}
		names = append(names, nt[0])
		types = append(types, nt[1])
	}
	return names, types, nil
}

// splitCSVValues parses a comma-separated literal list into the []any
// Insert expects; values are plain strings, coerced to each column's type
// inside table.Table.Insert.
func splitCSVValues(spec string) []any {
	parts := strings.Split(spec, ",")
	values := make([]any, len(parts))
	for i, p := range parts {
		values[i] = p
	}
	return values
}

// renderTable prints t as JSON or as a pretty-printed table depending on
// the --json persistent flag.
func renderTable(t *table.Table) error {
	if jsonOutput {
		return renderJSON(t)
	}
	return printer.Print(os.Stdout, t)
}

func renderJSON(t *table.Table) error {
	type row = map[string]any
	rows := make([]row, 0, len(t.Data))
	for _, r := range t.Data {
		if !r.IsLive() {
			continue
		}
		rec := make(row, len(t.ColumnNames))
		for i, name := range t.ColumnNames {
			rec[name] = r.Values[i]
		}
		rows = append(rows, rec)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
