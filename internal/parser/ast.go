package parser

import "github.com/ghosecorp/fdbreader/internal/storage"

// Statement is the interface for all SQL statements
type Statement interface {
	StatementNode()
}

// ShowStmt represents SHOW commands
type ShowStmt struct {
	ShowType  string // "TABLES", "ALL TABLES", "COLUMNS"
	TableName string // For SHOW COLUMNS
}

func (s *ShowStmt) StatementNode() {}

// SelectStmt represents SELECT
type SelectStmt struct {
	Columns    []string
	Aggregates []AggregateExpr
	TableName  string
	Where      *WhereClause
	GroupBy    []string
	OrderBy    []OrderByClause
	Limit      int
	Offset     int
}

func (s *SelectStmt) StatementNode() {}

// AggregateExpr is COUNT/SUM/AVG/MIN/MAX in a select list
type AggregateExpr struct {
	Function string
	Column   string // "*" for COUNT(*)
	Alias    string
}

// WhereClause represents a WHERE condition. Further conditions chain to the
// right: a AND b OR c reads as a AND (b OR c).
type WhereClause struct {
	Column   string
	Operator string
	Value    storage.Value
	And      *WhereClause
	Or       *WhereClause
}

// OrderByClause represents ORDER BY
type OrderByClause struct {
	Column     string
	Descending bool
}
