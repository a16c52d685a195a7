package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghosecorp/fdbreader/internal/executor"
)

const shellHelp = `Statements:
  SHOW TABLES | SHOW ALL TABLES | SHOW COLUMNS FROM t
  SELECT * | col, ... | COUNT(*), SUM(col), ... FROM t
    [WHERE col op value [AND|OR ...]] [GROUP BY col, ...]
    [ORDER BY col [ASC|DESC], ...] [LIMIT n] [OFFSET n]
Type "exit" or "quit" to leave.`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell FILE",
		Short: "Query a database with read-only SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, banner())
			fmt.Fprintf(out, "%s: %d table(s). Type \"help\" for the statement list.\n", args[0], len(db.UserTables()))

			runShell(cmd.InOrStdin(), out, executor.NewExecutor(db))
			return nil
		},
	}
}

// runShell reads one statement per line until EOF or exit.
func runShell(in io.Reader, out io.Writer, exec *executor.Executor) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, titleStyle.Render("fdbreader")+"> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(strings.TrimSuffix(input, ";")) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye")
			return
		case "help":
			fmt.Fprintln(out, shellHelp)
			continue
		}

		result, err := exec.Run(input)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
			continue
		}

		if result.Message != "" {
			fmt.Fprintln(out, result.Message)
		}
		if len(result.Columns) > 0 {
			renderTable(out, result.Columns, result.Rows)
		}
	}
}
