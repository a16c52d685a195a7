package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Column is a resolved column definition.
type Column struct {
	Name     string
	Position int
	Source   string
	Size     int
	Scale    int16
	Type     ColumnType
	NotNull  bool
	Computed bool
}

// ValueKind tags the decoded representation held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindText
	KindInteger
	KindSmallint
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindSmallint:
		return "smallint"
	default:
		return "null"
	}
}

// Value is a decoded cell. Types the decoder does not interpret are KindNull.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Str: s}
}

func IntegerValue(v int32) Value {
	return Value{Kind: KindInteger, Int: int64(v)}
}

func SmallintValue(v int16) Value {
	return Value{Kind: KindSmallint, Int: int64(v)}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// IsNumeric reports an integer or smallint value.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindSmallint
}

func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindInteger, KindSmallint:
		return strconv.FormatInt(v.Int, 10)
	default:
		return "<null>"
	}
}

// Interface returns the value as a Go value suitable for database/sql.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindInteger, KindSmallint:
		return v.Int
	default:
		return nil
	}
}

// Field is one named value of a row.
type Field struct {
	Name  string
	Value Value
}

// Row is one decoded record. Raw holds the bytes each column was decoded
// from, in column order.
type Row struct {
	Fields []Field
	Raw    [][]byte
}

// Get returns the value of the named column, matched case-insensitively.
func (r *Row) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Values returns the row's values in column order.
func (r *Row) Values() []Value {
	values := make([]Value, len(r.Fields))
	for i, f := range r.Fields {
		values[i] = f.Value
	}
	return values
}

// Table is a relation discovered in RDB$RELATIONS.
type Table struct {
	Name     string
	Relation uint16
	store    *PageStore
	charset  Charset
	logger   *util.Logger
}

// IsSystem reports an engine-owned relation; their names contain '$'.
func (t *Table) IsSystem() bool {
	return strings.Contains(t.Name, "$")
}

// Prepare resolves the table's columns and returns a cursor positioned
// before the first row.
func (t *Table) Prepare() (*Cursor, error) {
	columns, err := resolveColumns(t.store, t.Name, t.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare table %s: %w", t.Name, err)
	}
	t.logger.Debug("Prepared %s with %d column(s)", t.Name, len(columns))

	return &Cursor{
		table:   t,
		columns: columns,
		pages:   t.store.RelationPages(t.Relation),
		state:   cursorScanning,
	}, nil
}

// Columns resolves the table's columns without creating a cursor.
func (t *Table) Columns() ([]Column, error) {
	return resolveColumns(t.store, t.Name, t.logger)
}

// Rows reads up to limit rows; a limit of 0 reads them all. Rows with a
// field that fails to decode are logged and left out.
func (t *Table) Rows(limit int) ([]Column, []*Row, error) {
	cur, err := t.Prepare()
	if err != nil {
		return nil, nil, err
	}

	rows := make([]*Row, 0)
	for limit <= 0 || len(rows) < limit {
		row, err := cur.Next()
		if err != nil {
			if util.HasCode(err, util.ErrDecode) {
				t.logger.Warn("Skipping row of %s: %v", t.Name, err)
				continue
			}
			return nil, nil, err
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return cur.Columns(), rows, nil
}

type cursorState uint8

const (
	cursorScanning cursorState = iota
	cursorPositioned
	cursorExhausted
)

// Cursor walks the records of one relation page by page. It is not safe for
// concurrent use.
type Cursor struct {
	table   *Table
	columns []Column
	pages   []*DataPage
	state   cursorState
	page    int
	slot    int
}

func (c *Cursor) Columns() []Column {
	return c.columns
}

// Next decodes the next row. It returns (nil, nil) once the relation has no
// more records, and keeps doing so on later calls.
func (c *Cursor) Next() (*Row, error) {
	for {
		switch c.state {
		case cursorExhausted:
			return nil, nil

		case cursorScanning:
			if c.page >= len(c.pages) {
				c.state = cursorExhausted
				continue
			}
			c.slot = 0
			c.state = cursorPositioned

		case cursorPositioned:
			dp := c.pages[c.page]
			if c.slot >= len(dp.Slots) {
				c.page++
				c.state = cursorScanning
				continue
			}

			slot := c.slot
			c.slot++
			rec, err := dp.Record(slot)
			if err != nil {
				return nil, err
			}
			if rec == nil {
				continue
			}
			return DecodeRow(c.columns, rec.Decode(), c.table.charset)
		}
	}
}
