package storage

import (
	"encoding/binary"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// DecodeRow decodes a decompressed record into a row. Columns are read in
// order from a running offset that starts after the record prefix.
func DecodeRow(columns []Column, data []byte, charset Charset) (*Row, error) {
	row := &Row{
		Fields: make([]Field, len(columns)),
		Raw:    make([][]byte, len(columns)),
	}

	offset := RowPrefixSize
	for i, col := range columns {
		row.Fields[i].Name = col.Name

		if col.Computed {
			row.Raw[i] = []byte{}
			continue
		}

		start, end := columnSpan(columns, i, data, offset)
		offset = end

		span := clamp(data, start, end)
		row.Raw[i] = span

		val, err := decodeValue(col, span, charset)
		if err != nil {
			return nil, util.DecodeFailure(col.Name, err)
		}
		row.Fields[i].Value = val
	}

	return row, nil
}

// columnSpan returns the byte range of columns[i] when it starts at offset.
// The returned end is the offset of the next column and may lie past the
// end of data.
func columnSpan(columns []Column, i int, data []byte, offset int) (int, int) {
	col := columns[i]
	scale := int(col.Scale)
	if scale < 0 {
		scale = -scale
	}

	start := offset
	end := offset + col.Size + scale

	if col.Type == TypeVarchar {
		end += 2 // length prefix
	}
	if col.Type.IsText() && col.Size%2 == 1 {
		end++
	}

	if col.Type == TypeTimestamp {
		if start+4 <= len(data) && isZero(data[start:start+4]) {
			start += 2
			end += 2
		}
		prevTimestamp := i > 0 && columns[i-1].Type == TypeTimestamp
		nextTimestamp := i+1 < len(columns) && columns[i+1].Type == TypeTimestamp
		if !prevTimestamp && !nextTimestamp {
			end += 2
		}
	}

	return start, end
}

func decodeValue(col Column, span []byte, charset Charset) (Value, error) {
	switch col.Type {
	case TypeVarchar:
		if len(span) == 0 {
			return Value{}, nil
		}
		n := int(span[0])
		text := clamp(span, 2, 2+n)
		s, err := charset.Decode(text)
		if err != nil {
			return Value{}, err
		}
		return TextValue(s), nil

	case TypeChar:
		s, err := charset.Decode(clamp(span, 0, col.Size))
		if err != nil {
			return Value{}, err
		}
		return TextValue(s), nil

	case TypeInteger:
		if col.Scale != 0 || len(span) < 4 {
			return Value{}, nil
		}
		return IntegerValue(int32(binary.LittleEndian.Uint32(span[:4]))), nil

	case TypeSmallint:
		if len(span) < 2 {
			return Value{}, nil
		}
		return SmallintValue(int16(binary.LittleEndian.Uint16(span[:2]))), nil

	default:
		return Value{}, nil
	}
}

func clamp(data []byte, start, end int) []byte {
	if end > len(data) {
		end = len(data)
	}
	if start > end {
		start = end
	}
	return data[start:end]
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
