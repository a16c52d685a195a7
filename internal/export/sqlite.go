// Package export copies decoded tables into other databases.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

const driverName = "sqlite"

type Options struct {
	// IncludeSystem exports the engine's catalog tables as well.
	IncludeSystem bool
	// Overwrite replaces an existing target file.
	Overwrite bool
	Logger    *util.Logger
}

// TableReport describes one exported table.
type TableReport struct {
	Name        string
	Rows        int
	SkippedRows int
}

// SkippedTable is a table that could not be exported.
type SkippedTable struct {
	Name string
	Err  error
}

type Report struct {
	Path    string
	Tables  []TableReport
	Skipped []SkippedTable
}

// Rows returns the number of rows written over all tables.
func (r *Report) Rows() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

// ToSQLite writes every user table of db (and the system tables when asked)
// into a new SQLite database at path. Each table is written in its own
// transaction. Tables whose schema cannot be resolved are skipped.
func ToSQLite(ctx context.Context, db *storage.Database, path string, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = util.NewNopLogger()
	}

	if _, err := os.Stat(path); err == nil {
		if !opts.Overwrite {
			return nil, util.NewError(util.ErrInvalidArgument, fmt.Sprintf("%s already exists", path), nil)
		}
		if err := os.Remove(path); err != nil {
			return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to remove %s", path), err)
		}
	}

	out, err := sql.Open(driverName, path)
	if err != nil {
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to open %s", path), err)
	}
	defer out.Close()

	tables := db.UserTables()
	if opts.IncludeSystem {
		tables = db.Tables()
	}

	report := &Report{Path: path}
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tr, err := exportTable(ctx, out, table, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Warn("Skipping table %s: %v", table.Name, err)
			report.Skipped = append(report.Skipped, SkippedTable{Name: table.Name, Err: err})
			continue
		}
		logger.Debug("Exported %s (%d row(s))", tr.Name, tr.Rows)
		report.Tables = append(report.Tables, *tr)
	}

	logger.Info("Exported %d table(s), %d row(s) to %s", len(report.Tables), report.Rows(), path)
	return report, nil
}

func exportTable(ctx context.Context, out *sql.DB, table *storage.Table, logger *util.Logger) (*TableReport, error) {
	cur, err := table.Prepare()
	if err != nil {
		return nil, err
	}
	columns := cur.Columns()
	if len(columns) == 0 {
		return nil, util.NewError(util.ErrNotFound, "table has no columns", nil)
	}

	tx, err := out.BeginTx(ctx, nil)
	if err != nil {
		return nil, util.NewError(util.ErrIO, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createStatement(table.Name, columns)); err != nil {
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to create table %s", table.Name), err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(table.Name, columns))
	if err != nil {
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to prepare insert into %s", table.Name), err)
	}
	defer stmt.Close()

	tr := &TableReport{Name: table.Name}
	args := make([]interface{}, len(columns))
	for {
		row, err := cur.Next()
		if err != nil {
			if util.HasCode(err, util.ErrDecode) {
				logger.Warn("Skipping row of %s: %v", table.Name, err)
				tr.SkippedRows++
				continue
			}
			return nil, err
		}
		if row == nil {
			break
		}

		for i, f := range row.Fields {
			args[i] = f.Value.Interface()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to insert into %s", table.Name), err)
		}
		tr.Rows++
	}

	if err := tx.Commit(); err != nil {
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to commit %s", table.Name), err)
	}
	return tr, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createStatement(table string, columns []storage.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		// No NOT NULL: types the decoder does not interpret arrive as NULL.
		defs[i] = quoteIdent(col.Name) + " " + col.Type.SQLiteType()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

func insertStatement(table string, columns []storage.Column) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quoteIdent(col.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}
