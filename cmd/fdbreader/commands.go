package main

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ghosecorp/fdbreader/internal/executor"
	"github.com/ghosecorp/fdbreader/internal/export"
	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

func newTablesCmd(a *app) *cobra.Command {
	var system bool

	cmd := &cobra.Command{
		Use:   "tables FILE",
		Short: "List the tables of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}

			query := "SHOW TABLES"
			if system {
				query = "SHOW ALL TABLES"
			}
			res, err := executor.NewExecutor(db).Run(query)
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), res.Columns, res.Rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&system, "system", false, "include the engine's system tables")
	cmd.Flags().BoolVar(&system, "system-tables", false, "alias for --system")
	return cmd
}

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE TABLE",
		Short: "Describe the columns of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			table, err := db.Table(args[1])
			if err != nil {
				return err
			}
			columns, err := table.Columns()
			if err != nil {
				return err
			}

			rows := make([][]string, len(columns))
			for i, c := range columns {
				rows[i] = []string{
					strconv.Itoa(c.Position),
					c.Name,
					c.Source,
					c.Type.String(),
					strconv.Itoa(c.Size),
					strconv.Itoa(int(c.Scale)),
					yesNo(c.NotNull),
					yesNo(c.Computed),
				}
			}
			renderTable(cmd.OutOrStdout(),
				[]string{"Position", "Column", "Source", "Type", "Size", "Scale", "Not Null", "Computed"}, rows)
			return nil
		},
	}
}

func newRowsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rows FILE TABLE",
		Short: "Print the decoded rows of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return util.NewError(util.ErrInvalidArgument, "--limit must not be negative", nil)
			}
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			table, err := db.Table(args[1])
			if err != nil {
				return err
			}
			cur, err := table.Prepare()
			if err != nil {
				return err
			}

			header := make([]string, len(cur.Columns()))
			for i, c := range cur.Columns() {
				header[i] = c.Name
			}

			rows := make([][]string, 0)
			for limit == 0 || len(rows) < limit {
				row, err := cur.Next()
				if err != nil {
					if util.HasCode(err, util.ErrDecode) {
						a.logger.Warn("Skipping row: %v", err)
						continue
					}
					return err
				}
				if row == nil {
					break
				}
				cells := make([]string, len(row.Fields))
				for i, f := range row.Fields {
					cells[i] = f.Value.String()
				}
				rows = append(rows, cells)
			}
			renderTable(cmd.OutOrStdout(), header, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many rows (0 reads all)")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show the database header and page statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			hdr := db.Header()
			store := db.Store()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, titleStyle.Render(args[0]))
			renderPairs(out, [][2]string{
				{"ODS version", hdr.ODS()},
				{"Page size", humanize.IBytes(uint64(hdr.PageSize))},
				{"File size", fmt.Sprintf("%s (%s bytes)", humanize.IBytes(uint64(store.Size())), humanize.Comma(store.Size()))},
				{"Pages", humanize.Comma(int64(store.TotalPages()))},
				{"Oldest transaction", strconv.FormatUint(uint64(hdr.OldestTransaction), 10)},
				{"Oldest active", strconv.FormatUint(uint64(hdr.OldestActive), 10)},
				{"Next transaction", strconv.FormatUint(uint64(hdr.NextTransaction), 10)},
				{"Page buffers", strconv.FormatUint(uint64(hdr.PageBuffers), 10)},
				{"Tables", fmt.Sprintf("%d (%d user)", len(db.Tables()), len(db.UserTables()))},
				{"BLAKE3", hex.EncodeToString(store.Digest())},
			})

			counts := store.PageCounts()
			types := make([]storage.PageType, 0, len(counts))
			for pt := range counts {
				types = append(types, pt)
			}
			sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

			rows := make([][]string, len(types))
			for i, pt := range types {
				rows[i] = []string{pt.String(), humanize.Comma(int64(counts[pt]))}
			}
			fmt.Fprintln(out)
			renderTable(out, []string{"Page type", "Count"}, rows)
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Read every record and report damaged pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			report, err := storage.Verify(cmd.Context(), db, a.cfg.Workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderPairs(out, [][2]string{
				{"Data pages", humanize.Comma(int64(report.Pages))},
				{"Records", humanize.Comma(int64(report.Records))},
				{"Empty slots", humanize.Comma(int64(report.Holes))},
				{"Decoded", humanize.IBytes(uint64(report.DecodedBytes))},
			})

			if report.OK() {
				fmt.Fprintln(out, okStyle.Render("OK"))
				return nil
			}

			rows := make([][]string, len(report.Problems))
			for i, p := range report.Problems {
				rows[i] = []string{strconv.Itoa(p.Page), strconv.Itoa(int(p.Relation)), p.Err.Error()}
			}
			renderTable(out, []string{"Page", "Relation", "Problem"}, rows)
			return util.NewError(util.ErrCorrupted, fmt.Sprintf("%d damaged page(s)", len(report.Problems)), nil)
		},
	}

	cmd.Flags().Int("workers", 4, "pages checked in parallel")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var opts export.Options

	cmd := &cobra.Command{
		Use:   "export FILE OUT",
		Short: "Copy the tables into a new SQLite database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			opts.Logger = util.NewLogger("export")

			report, err := export.ToSQLite(cmd.Context(), db, args[1], opts)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(report.Tables)+len(report.Skipped))
			for _, t := range report.Tables {
				rows = append(rows, []string{t.Name, humanize.Comma(int64(t.Rows)), strconv.Itoa(t.SkippedRows), ""})
			}
			for _, s := range report.Skipped {
				rows = append(rows, []string{s.Name, "-", "-", s.Err.Error()})
			}
			out := cmd.OutOrStdout()
			renderTable(out, []string{"Table", "Rows", "Skipped rows", "Note"}, rows)
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Wrote %s rows to %s", humanize.Comma(int64(report.Rows())), report.Path)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.IncludeSystem, "system", false, "export the engine's system tables too")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace OUT if it exists")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fdbreader "+version)
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
