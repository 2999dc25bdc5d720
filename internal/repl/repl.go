// Package repl implements the read-eval-print command loop external
// collaborator (spec.md S1, S6). It is deliberately thin: it tokenizes one
// line into a statement name plus arguments and shells out to
// internal/catalog's statement entry points, with no history, completion,
// or SQL parsing of its own.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/reldb/reldb/internal/catalog"
	"github.com/reldb/reldb/internal/printer"
)

// Run reads commands from in and writes results/errors to out until EOF or
// a "quit" command. It detects a non-interactive stdin via golang.org/x/term
// and skips the prompt in that mode, the same guard the teacher's TUI code
// uses before launching its own interactive front end.
func Run(db *catalog.Database, in io.Reader, out io.Writer) error {
	interactive := false
	if f, ok := in.(interface{ Fd() uintptr }); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "reldb> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := dispatch(db, line, out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

// dispatch tokenizes one line and shells out to the matching Database
// statement entry point (spec.md S4.4's public statement surface). It
// covers every statement named there except load_database: the caller
// loads the Database once before Run. save_database is the "save" command.
func dispatch(db *catalog.Database, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	statement, args := fields[0], fields[1:]

	switch statement {
	case "create_table":
		// create_table <name> <pk|-> <col:type[,col:type...]>
		if len(args) < 3 {
			return fmt.Errorf("usage: create_table <table> <pk|-> <col:type,...>")
		}
		name, pk := args[0], args[1]
		if pk == "-" {
			pk = ""
		}
		names, types := splitColumnSpecs(args[2])
		return db.CreateTable(name, names, types, nil, pk)

	case "drop_table":
		if len(args) != 1 {
			return fmt.Errorf("usage: drop_table <table>")
		}
		return db.DropTable(args[0])

	case "insert":
		if len(args) < 2 {
			return fmt.Errorf("usage: insert <table> <v1,v2,...>")
		}
		values := splitValues(args[1])
		return db.InsertInto(args[0], values)

	case "update":
		if len(args) < 4 {
			return fmt.Errorf("usage: update <table> <column> <value> <condition>")
		}
		return db.UpdateTable(args[0], args[1], args[2], strings.Join(args[3:], " "))

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: delete <table> <condition>")
		}
		return db.DeleteFrom(args[0], strings.Join(args[1:], " "))

	case "sort":
		if len(args) < 2 {
			return fmt.Errorf("usage: sort <table> <column> [asc|desc]")
		}
		asc := true
		if len(args) > 2 && args[2] == "desc" {
			asc = false
		}
		return db.Sort(args[0], args[1], asc)

	case "cast":
		if len(args) != 3 {
			return fmt.Errorf("usage: cast <table> <column> <type>")
		}
		return db.Cast(args[0], args[1], args[2])

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <table>")
		}
		t, err := db.ShowTable(args[0])
		if err != nil {
			return err
		}
		return printer.Print(out, t)

	case "select":
		// select <table> [condition] [--order col] [--desc] [--top n]
		if len(args) < 1 {
			return fmt.Errorf("usage: select <table> [condition] [--order col] [--desc] [--top n]")
		}
		rest, orderBy, desc, topK, err := parseSelectFlags(args[1:])
		if err != nil {
			return err
		}
		cond := strings.Join(rest, " ")
		t, err := db.SelectStatement(args[0], nil, cond, orderBy, desc, topK)
		if err != nil {
			return err
		}
		return printer.Print(out, t)

	case "join":
		if len(args) < 3 {
			return fmt.Errorf("usage: join <left> <right> <condition>")
		}
		t, err := db.Join("inner", args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return printer.Print(out, t)

	case "create_index":
		if len(args) != 2 {
			return fmt.Errorf("usage: create_index <index_name> <table>")
		}
		return db.CreateIndex(args[0], args[1])

	case "lock":
		if len(args) != 1 {
			return fmt.Errorf("usage: lock <table>")
		}
		return db.LockTable(args[0])

	case "unlock":
		if len(args) != 1 {
			return fmt.Errorf("usage: unlock <table>")
		}
		return db.UnlockTable(args[0])

	case "is_locked":
		if len(args) != 1 {
			return fmt.Errorf("usage: is_locked <table>")
		}
		fmt.Fprintln(out, db.IsLocked(args[0]))
		return nil

	case "import":
		if len(args) < 3 {
			return fmt.Errorf("usage: import <table> <csv_path> <pk|->")
		}
		pk := args[2]
		if pk == "-" {
			pk = ""
		}
		return db.ImportTable(args[0], args[1], pk)

	case "export":
		if len(args) != 2 {
			return fmt.Errorf("usage: export <table> <csv_path>")
		}
		return db.Export(args[0], args[1])

	case "save":
		return db.SaveDatabase()

	default:
		return fmt.Errorf("unrecognized statement: %s", statement)
	}
}

// splitColumnSpecs parses "col:type,col:type,..." into parallel name/type
// slices for create_table.
func splitColumnSpecs(spec string) (names, types []string) {
	for _, part := range strings.Split(spec, ",") {
		nt := strings.SplitN(part, ":", 2)
		if len(nt) != 2 {
			continue
		}
		names = append(names, nt[0])
		types = append(types, nt[1])
	}
	return names, types
}

// splitValues parses a comma-separated literal list into the []any Insert
// expects; values are plain strings here and coerced to the column's type
// inside table.Table.Insert.
func splitValues(spec string) []any {
	parts := strings.Split(spec, ",")
	values := make([]any, len(parts))
	for i, p := range parts {
		values[i] = p
	}
	return values
}

// parseSelectFlags pulls --order, --desc and --top out of a select
// statement's trailing arguments, returning the remaining tokens (the
// condition) unchanged.
func parseSelectFlags(args []string) (rest []string, orderBy string, desc bool, topK *int, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--order":
			if i+1 >= len(args) {
				return nil, "", false, nil, fmt.Errorf("--order requires a column name")
			}
			orderBy = args[i+1]
			i++
		case "--desc":
			desc = true
		case "--top":
			if i+1 >= len(args) {
				return nil, "", false, nil, fmt.Errorf("--top requires a count")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return nil, "", false, nil, fmt.Errorf("--top: %w", err)
			}
			topK = &n
			i++
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, orderBy, desc, topK, nil
}
