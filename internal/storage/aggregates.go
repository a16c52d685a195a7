package storage

import (
	"fmt"
	"strings"
)

// AggregateSpec specifies an aggregate function
type AggregateSpec struct {
	Function string
	Column   string
	Alias    string
}

// AggregateResult stores the result of an aggregate function. Value is an
// int64 for COUNT and SUM, a float64 for AVG, a Value for MIN and MAX, or nil
// when no row contributed.
type AggregateResult struct {
	Function string
	Column   string
	Value    interface{}
	Alias    string
}

// ComputeAggregates computes aggregate functions on rows
func ComputeAggregates(rows []*Row, aggregates []AggregateSpec) ([]AggregateResult, error) {
	results := make([]AggregateResult, len(aggregates))

	for i, agg := range aggregates {
		var value interface{}
		var err error

		switch strings.ToUpper(agg.Function) {
		case "COUNT":
			value = computeCount(rows, agg.Column)
		case "SUM":
			value, err = computeSum(rows, agg.Column)
		case "AVG":
			value, err = computeAvg(rows, agg.Column)
		case "MAX":
			value, err = computeExtreme(rows, agg.Column, "MAX", 1)
		case "MIN":
			value, err = computeExtreme(rows, agg.Column, "MIN", -1)
		default:
			return nil, fmt.Errorf("unsupported aggregate function: %s", agg.Function)
		}

		if err != nil {
			return nil, err
		}

		results[i] = AggregateResult{
			Function: agg.Function,
			Column:   agg.Column,
			Value:    value,
			Alias:    agg.Alias,
		}
	}

	return results, nil
}

func computeCount(rows []*Row, column string) int64 {
	if column == "*" {
		return int64(len(rows))
	}

	var count int64
	for _, row := range rows {
		if val, exists := row.Get(column); exists && !val.IsNull() {
			count++
		}
	}
	return count
}

// numericValues collects the non-null values of column, failing on text.
func numericValues(rows []*Row, column, fn string) ([]int64, error) {
	if column == "*" {
		return nil, fmt.Errorf("%s(*) is not supported", fn)
	}

	values := make([]int64, 0, len(rows))
	for _, row := range rows {
		val, exists := row.Get(column)
		if !exists {
			return nil, fmt.Errorf("unknown column %s", column)
		}
		if val.IsNull() {
			continue
		}
		if !val.IsNumeric() {
			return nil, fmt.Errorf("%s requires numeric values", fn)
		}
		values = append(values, val.Int)
	}
	return values, nil
}

func computeSum(rows []*Row, column string) (interface{}, error) {
	values, err := numericValues(rows, column, "SUM")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum, nil
}

func computeAvg(rows []*Row, column string) (interface{}, error) {
	values, err := numericValues(rows, column, "AVG")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), nil
}

// computeExtreme returns the largest (sign 1) or smallest (sign -1) value.
func computeExtreme(rows []*Row, column, fn string, sign int) (interface{}, error) {
	if column == "*" {
		return nil, fmt.Errorf("%s(*) is not supported", fn)
	}

	var best Value
	found := false

	for _, row := range rows {
		val, exists := row.Get(column)
		if !exists || val.IsNull() {
			continue
		}

		if !found || CompareValues(val, best)*sign > 0 {
			best = val
			found = true
		}
	}

	if !found {
		return nil, nil
	}
	return best, nil
}

// CompareValues orders values: nulls first, then numbers by value, then text.
// A number and a text compare by their string forms.
func CompareValues(a, b Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}

	if a.IsNumeric() && b.IsNumeric() {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}

	return strings.Compare(a.String(), b.String())
}

// GroupByResult represents grouped rows with their aggregate results
type GroupByResult struct {
	GroupKey   []Field
	Rows       []*Row
	Aggregates []AggregateResult
}

// GroupRows groups rows by the given columns. Groups are returned in the
// order their first row appears.
func GroupRows(rows []*Row, groupByColumns []string) []*GroupByResult {
	groups := make([]*GroupByResult, 0)
	index := make(map[string]*GroupByResult)

	for _, row := range rows {
		key := makeGroupKey(row, groupByColumns)

		group, exists := index[key]
		if !exists {
			groupKey := make([]Field, len(groupByColumns))
			for i, col := range groupByColumns {
				val, _ := row.Get(col)
				groupKey[i] = Field{Name: col, Value: val}
			}
			group = &GroupByResult{GroupKey: groupKey}
			index[key] = group
			groups = append(groups, group)
		}

		group.Rows = append(group.Rows, row)
	}

	return groups
}

func makeGroupKey(row *Row, columns []string) string {
	var sb strings.Builder
	for i, col := range columns {
		if i > 0 {
			sb.WriteByte('|')
		}
		val, _ := row.Get(col)
		fmt.Fprintf(&sb, "%d:%q", val.Kind, val.Str)
		if val.IsNumeric() {
			fmt.Fprintf(&sb, "%d", val.Int)
		}
	}
	return sb.String()
}
