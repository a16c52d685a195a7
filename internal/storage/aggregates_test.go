package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggRow(name string, amount Value) *Row {
	return &Row{Fields: []Field{{Name: "NAME", Value: TextValue(name)}, {Name: "AMOUNT", Value: amount}}}
}

func TestComputeAggregates(t *testing.T) {
	rows := []*Row{
		aggRow("b", IntegerValue(10)),
		aggRow("a", SmallintValue(-4)),
		aggRow("c", Value{}),
	}

	res, err := ComputeAggregates(rows, []AggregateSpec{
		{Function: "COUNT", Column: "*", Alias: "n"},
		{Function: "COUNT", Column: "amount", Alias: "c"},
		{Function: "SUM", Column: "AMOUNT", Alias: "s"},
		{Function: "AVG", Column: "AMOUNT", Alias: "a"},
		{Function: "MIN", Column: "AMOUNT", Alias: "lo"},
		{Function: "MAX", Column: "NAME", Alias: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), res[0].Value)
	assert.Equal(t, int64(2), res[1].Value)
	assert.Equal(t, int64(6), res[2].Value)
	assert.Equal(t, 3.0, res[3].Value)
	assert.Equal(t, SmallintValue(-4), res[4].Value)
	assert.Equal(t, TextValue("c"), res[5].Value)
	assert.Equal(t, "hi", res[5].Alias)
}

func TestComputeAggregatesEmptyAndErrors(t *testing.T) {
	res, err := ComputeAggregates(nil, []AggregateSpec{{Function: "SUM", Column: "X"}, {Function: "MAX", Column: "X"}})
	require.NoError(t, err)
	assert.Nil(t, res[0].Value)
	assert.Nil(t, res[1].Value)

	rows := []*Row{aggRow("a", IntegerValue(1))}
	_, err = ComputeAggregates(rows, []AggregateSpec{{Function: "SUM", Column: "NAME"}})
	assert.Error(t, err)
	_, err = ComputeAggregates(rows, []AggregateSpec{{Function: "AVG", Column: "*"}})
	assert.Error(t, err)
	_, err = ComputeAggregates(rows, []AggregateSpec{{Function: "MEDIAN", Column: "NAME"}})
	assert.Error(t, err)
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, 0, CompareValues(Value{}, Value{}))
	assert.Equal(t, -1, CompareValues(Value{}, TextValue("")))
	assert.Equal(t, 1, CompareValues(SmallintValue(1), Value{}))
	assert.Equal(t, -1, CompareValues(SmallintValue(9), IntegerValue(10)))
	assert.Equal(t, 0, CompareValues(IntegerValue(7), SmallintValue(7)))
	assert.Equal(t, 1, CompareValues(TextValue("b"), TextValue("a")))
	assert.Equal(t, 0, CompareValues(TextValue("12"), IntegerValue(12)))
}

func TestGroupRows(t *testing.T) {
	rows := []*Row{
		aggRow("x", IntegerValue(1)),
		aggRow("y", IntegerValue(2)),
		aggRow("x", IntegerValue(3)),
		aggRow("z", Value{}),
	}

	groups := GroupRows(rows, []string{"name"})
	require.Len(t, groups, 3)
	assert.Equal(t, TextValue("x"), groups[0].GroupKey[0].Value)
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, TextValue("y"), groups[1].GroupKey[0].Value)

	// Null and numeric keys do not collide with text.
	byAmount := GroupRows(append(rows, aggRow("w", TextValue("1"))), []string{"AMOUNT"})
	assert.Len(t, byAmount, 5)
}
