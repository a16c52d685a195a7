package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghosecorp/fdbreader/internal/storage/storagetest"
)

func TestColumnSpan(t *testing.T) {
	data := make([]byte, 64)

	tests := []struct {
		name      string
		columns   []Column
		i         int
		data      []byte
		offset    int
		wantStart int
		wantEnd   int
	}{
		{"smallint", []Column{{Type: TypeSmallint, Size: 2}}, 0, data, 4, 4, 6},
		{"char odd", []Column{{Type: TypeChar, Size: 3}}, 0, data, 4, 4, 8},
		{"char even", []Column{{Type: TypeChar, Size: 4}}, 0, data, 4, 4, 8},
		{"varchar odd", []Column{{Type: TypeVarchar, Size: 15}}, 0, data, 4, 4, 22},
		{"varchar even", []Column{{Type: TypeVarchar, Size: 10}}, 0, data, 22, 22, 34},
		{"scaled bigint", []Column{{Type: TypeBigint, Size: 8, Scale: -2}}, 0, data, 4, 4, 14},
		{"lone timestamp zero prefix", []Column{{Type: TypeTimestamp, Size: 8}}, 0, data, 4, 6, 16},
		{"lone timestamp", []Column{{Type: TypeTimestamp, Size: 8}}, 0, []byte{0, 0, 0, 0, 1, 2, 3, 4}, 4, 4, 14},
		{
			"timestamp pair",
			[]Column{{Type: TypeTimestamp, Size: 8}, {Type: TypeTimestamp, Size: 8}},
			1, []byte{0, 0, 0, 0, 1, 2, 3, 4, 5}, 4, 4, 12,
		},
		{
			"timestamp after timestamp zero prefix",
			[]Column{{Type: TypeTimestamp, Size: 8}, {Type: TypeTimestamp, Size: 8}, {Type: TypeInteger, Size: 4}},
			1, data, 12, 14, 22,
		},
		{"timestamp short data", []Column{{Type: TypeTimestamp, Size: 8}}, 0, []byte{0, 0, 0, 0, 0}, 4, 4, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := columnSpan(tt.columns, tt.i, tt.data, tt.offset)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestDecodeRowTypes(t *testing.T) {
	columns := []Column{
		{Name: "DEPT_NO", Type: TypeChar, Size: 3},
		{Name: "NAME", Type: TypeVarchar, Size: 5},
		{Name: "BUDGET", Type: TypeInteger, Size: 4, Scale: -2},
		{Name: "HEAD", Type: TypeSmallint, Size: 2},
		{Name: "TOTAL", Type: TypeVarchar, Size: 20, Computed: true},
		{Name: "ID", Type: TypeInteger, Size: 4},
		{Name: "RATE", Type: TypeDoublePrecision, Size: 8},
	}
	data := storagetest.Row(
		storagetest.CharValue("600", 3),
		storagetest.VarcharValue("Sales", 5),
		make([]byte, 6),
		storagetest.SmallintValue(-3),
		storagetest.IntegerValue(1001),
		make([]byte, 8),
	)

	row, err := DecodeRow(columns, data, CharsetUTF8)
	require.NoError(t, err)

	assert.Equal(t, []Value{
		TextValue("600"),
		TextValue("Sales"),
		{},
		SmallintValue(-3),
		{},
		IntegerValue(1001),
		{},
	}, row.Values())
	assert.Equal(t, "DEPT_NO", row.Fields[0].Name)
	assert.Len(t, row.Raw[2], 6)
	assert.Empty(t, row.Raw[4])
	assert.Len(t, row.Raw[6], 8)
}

func TestDecodeRowCharKeepsPadding(t *testing.T) {
	columns := []Column{{Name: "CODE", Type: TypeChar, Size: 5}}
	row, err := DecodeRow(columns, storagetest.Row(storagetest.CharValue("AB", 5)), CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, TextValue("AB   "), row.Fields[0].Value)
}

func TestDecodeRowTruncatedRecord(t *testing.T) {
	columns := []Column{
		{Name: "A", Type: TypeVarchar, Size: 10},
		{Name: "B", Type: TypeInteger, Size: 4},
		{Name: "C", Type: TypeVarchar, Size: 10},
	}
	// Only the first column and half of the second survive.
	data := append(storagetest.Row(storagetest.VarcharValue("abc", 10)), 1, 2)

	row, err := DecodeRow(columns, data, CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, []Value{TextValue("abc"), {}, {}}, row.Values())
	assert.Equal(t, []byte{1, 2}, row.Raw[1])
	assert.Empty(t, row.Raw[2])
}

func TestDecodeRowVarcharLengthClamped(t *testing.T) {
	columns := []Column{{Name: "A", Type: TypeVarchar, Size: 4}}
	data := storagetest.Row([]byte{40, 0, 'a', 'b', 'c', 'd'})

	row, err := DecodeRow(columns, data, CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, TextValue("abcd"), row.Fields[0].Value)
}
