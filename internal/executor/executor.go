package executor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ghosecorp/fdbreader/internal/parser"
	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

type Executor struct {
	db *storage.Database
}

func NewExecutor(db *storage.Database) *Executor {
	return &Executor{db: db}
}

// Result is a rendered statement result: a header row and text cells.
type Result struct {
	Message string
	Columns []string
	Rows    [][]string
}

// Run parses and executes a single statement.
func (e *Executor) Run(query string) (*Result, error) {
	stmt, err := parser.NewParser(query).Parse()
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.ShowStmt:
		return e.executeShow(s)
	case *parser.SelectStmt:
		return e.executeSelect(s)
	default:
		return nil, util.NewError(util.ErrInvalidArgument, "unsupported statement type", nil)
	}
}

func (e *Executor) executeShow(stmt *parser.ShowStmt) (*Result, error) {
	switch stmt.ShowType {
	case "TABLES":
		return e.executeShowTables(e.db.UserTables()), nil
	case "ALL TABLES":
		return e.executeShowTables(e.db.Tables()), nil
	case "COLUMNS":
		return e.executeShowColumns(stmt.TableName)
	default:
		return nil, util.NewError(util.ErrInvalidArgument, fmt.Sprintf("unsupported SHOW type: %s", stmt.ShowType), nil)
	}
}

func (e *Executor) executeShowTables(tables []*storage.Table) *Result {
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []string{t.Name, strconv.Itoa(int(t.Relation)), yesNo(t.IsSystem())})
	}

	return &Result{
		Rows:    rows,
		Columns: []string{"Table", "Relation", "System"},
	}
}

func (e *Executor) executeShowColumns(tableName string) (*Result, error) {
	table, err := e.findTable(tableName)
	if err != nil {
		return nil, err
	}

	columns, err := table.Columns()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(columns))
	for i, col := range columns {
		rows[i] = []string{
			strconv.Itoa(col.Position),
			col.Name,
			col.Type.String(),
			strconv.Itoa(col.Size),
			strconv.Itoa(int(col.Scale)),
			yesNo(!col.NotNull),
			col.Source,
		}
	}

	return &Result{
		Rows:    rows,
		Columns: []string{"Position", "Column", "Type", "Size", "Scale", "Nullable", "Source"},
	}, nil
}

// findTable matches the name case-insensitively; an exact match wins.
func (e *Executor) findTable(name string) (*storage.Table, error) {
	if t, err := e.db.Table(name); err == nil {
		return t, nil
	}
	for _, t := range e.db.Tables() {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, util.NewError(util.ErrNotFound, fmt.Sprintf("table %s does not exist", name), nil)
}

func (e *Executor) executeSelect(stmt *parser.SelectStmt) (*Result, error) {
	table, err := e.findTable(stmt.TableName)
	if err != nil {
		return nil, err
	}

	columns, rows, err := table.Rows(0)
	if err != nil {
		return nil, err
	}

	if err := checkColumns(columns, stmt); err != nil {
		return nil, err
	}

	if stmt.Where != nil {
		filtered := make([]*storage.Row, 0, len(rows))
		for _, row := range rows {
			if evaluateWhere(row, stmt.Where) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	if len(stmt.Aggregates) > 0 {
		return e.executeAggregateSelect(stmt, rows)
	}

	// Apply ORDER BY
	if len(stmt.OrderBy) > 0 {
		rows = applyOrderBy(rows, stmt.OrderBy)
	}

	rows = applyLimit(rows, stmt.Limit, stmt.Offset)

	names := make([]string, 0, len(stmt.Columns))
	for _, col := range stmt.Columns {
		if col == "*" {
			for _, c := range columns {
				names = append(names, c.Name)
			}
			continue
		}
		names = append(names, canonicalName(columns, col))
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(names))
		for j, name := range names {
			val, _ := row.Get(name)
			cells[j] = val.String()
		}
		out[i] = cells
	}

	return &Result{
		Rows:    out,
		Columns: names,
	}, nil
}

func (e *Executor) executeAggregateSelect(stmt *parser.SelectStmt, rows []*storage.Row) (*Result, error) {
	aggregates := make([]storage.AggregateSpec, len(stmt.Aggregates))
	for i, agg := range stmt.Aggregates {
		aggregates[i] = storage.AggregateSpec{
			Function: agg.Function,
			Column:   agg.Column,
			Alias:    agg.Alias,
		}
	}

	if len(stmt.GroupBy) > 0 {
		return e.executeGroupBy(stmt, rows, aggregates)
	}

	results, err := storage.ComputeAggregates(rows, aggregates)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(results))
	cells := make([]string, 0, len(results))
	for _, res := range results {
		columns = append(columns, res.Alias)
		cells = append(cells, formatAggregate(res.Value))
	}

	return &Result{
		Rows:    [][]string{cells},
		Columns: columns,
	}, nil
}

func (e *Executor) executeGroupBy(stmt *parser.SelectStmt, rows []*storage.Row, aggregates []storage.AggregateSpec) (*Result, error) {
	groups := storage.GroupRows(rows, stmt.GroupBy)

	columns := make([]string, 0, len(stmt.GroupBy)+len(aggregates))
	columns = append(columns, stmt.GroupBy...)
	for _, agg := range aggregates {
		columns = append(columns, agg.Alias)
	}

	// Grouped results are ordered through synthetic rows so ORDER BY can
	// refer to group columns and aggregate aliases alike.
	grouped := make([]*storage.Row, 0, len(groups))
	for _, group := range groups {
		res, err := storage.ComputeAggregates(group.Rows, aggregates)
		if err != nil {
			return nil, err
		}
		group.Aggregates = res

		row := &storage.Row{Fields: append([]storage.Field{}, group.GroupKey...)}
		for _, r := range res {
			row.Fields = append(row.Fields, storage.Field{Name: r.Alias, Value: aggregateValue(r.Value)})
		}
		grouped = append(grouped, row)
	}

	if len(stmt.OrderBy) > 0 {
		grouped = applyOrderBy(grouped, stmt.OrderBy)
	}
	grouped = applyLimit(grouped, stmt.Limit, stmt.Offset)

	out := make([][]string, len(grouped))
	for i, row := range grouped {
		cells := make([]string, len(row.Fields))
		for j, f := range row.Fields {
			cells[j] = f.Value.String()
		}
		out[i] = cells
	}

	return &Result{
		Rows:    out,
		Columns: columns,
	}, nil
}

// checkColumns rejects references to columns the table does not have.
func checkColumns(columns []storage.Column, stmt *parser.SelectStmt) error {
	refs := make([]string, 0)
	for _, c := range stmt.Columns {
		if c != "*" {
			refs = append(refs, c)
		}
	}
	for _, agg := range stmt.Aggregates {
		if agg.Column != "*" {
			refs = append(refs, agg.Column)
		}
	}
	refs = append(refs, stmt.GroupBy...)
	for w := stmt.Where; w != nil; {
		refs = append(refs, w.Column)
		if w.And != nil {
			w = w.And
		} else {
			w = w.Or
		}
	}
	if len(stmt.GroupBy) == 0 {
		for _, o := range stmt.OrderBy {
			refs = append(refs, o.Column)
		}
	}

	for _, ref := range refs {
		if canonicalName(columns, ref) == "" {
			return util.NewError(util.ErrNotFound, fmt.Sprintf("column %s does not exist", ref), nil)
		}
	}
	return nil
}

func canonicalName(columns []storage.Column, name string) string {
	for _, c := range columns {
		if strings.EqualFold(c.Name, name) {
			return c.Name
		}
	}
	return ""
}

func evaluateWhere(row *storage.Row, where *parser.WhereClause) bool {
	ok := evaluateCondition(row, where)
	switch {
	case where.And != nil:
		return ok && evaluateWhere(row, where.And)
	case where.Or != nil:
		return ok || evaluateWhere(row, where.Or)
	default:
		return ok
	}
}

// evaluateCondition never matches a null value.
func evaluateCondition(row *storage.Row, where *parser.WhereClause) bool {
	val, exists := row.Get(where.Column)
	if !exists || val.IsNull() {
		return false
	}

	switch where.Operator {
	case "=":
		return storage.CompareValues(val, where.Value) == 0
	case "!=", "<>":
		return storage.CompareValues(val, where.Value) != 0
	case "<":
		return storage.CompareValues(val, where.Value) < 0
	case "<=":
		return storage.CompareValues(val, where.Value) <= 0
	case ">":
		return storage.CompareValues(val, where.Value) > 0
	case ">=":
		return storage.CompareValues(val, where.Value) >= 0
	case "LIKE":
		return likePattern(where.Value.String()).MatchString(val.String())
	default:
		return false
	}
}

// likePattern translates a LIKE pattern with % and _ wildcards.
func likePattern(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func applyOrderBy(rows []*storage.Row, orderBy []parser.OrderByClause) []*storage.Row {
	sorted := make([]*storage.Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, order := range orderBy {
			valI, _ := sorted[i].Get(order.Column)
			valJ, _ := sorted[j].Get(order.Column)

			cmp := storage.CompareValues(valI, valJ)
			if cmp != 0 {
				if order.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})

	return sorted
}

func applyLimit(rows []*storage.Row, limit, offset int) []*storage.Row {
	if offset > 0 {
		if offset < len(rows) {
			rows = rows[offset:]
		} else {
			rows = []*storage.Row{}
		}
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func aggregateValue(v interface{}) storage.Value {
	switch x := v.(type) {
	case int64:
		return storage.Value{Kind: storage.KindInteger, Int: x}
	case storage.Value:
		return x
	case nil:
		return storage.Value{}
	default:
		return storage.TextValue(formatAggregate(v))
	}
}

func formatAggregate(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return storage.Value{}.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case storage.Value:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
