package storage

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghosecorp/fdbreader/internal/storage/storagetest"
	"github.com/ghosecorp/fdbreader/internal/util"
)

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecompress(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "mixed runs",
			in:   []byte{0x01, 0xFE, 0xFD, 0x00, 0x03, 0x20, 0x00, 0x41, 0xFC, 0x61, 0x01, 0x42, 0xF7, 0x62, 0x01, 0x43, 0xF2, 0x63, 0x02, 0x44, 0x44},
			want: concat(
				[]byte{0xFE, 0x00, 0x00, 0x00, 0x20, 0x00, 0x41},
				repeat(0x61, 4),
				[]byte{0x42},
				repeat(0x62, 9),
				[]byte{0x43},
				repeat(0x63, 14),
				[]byte{0x44, 0x44},
			),
		},
		{
			name: "stops at zero control",
			in:   []byte{0x01, 0xFE, 0xFD, 0x00, 0x0A, 0x08, 0x00, 'F', 'i', 'r', 'e', 'b', 'i', 'r', 'd', 0x00, 0x05, 'x'},
			want: []byte{0xFE, 0x00, 0x00, 0x00, 0x08, 0x00, 'F', 'i', 'r', 'e', 'b', 'i', 'r', 'd'},
		},
		{
			name: "trailing run",
			in:   []byte{0x01, 0xFE, 0xFD, 0x00, 0x02, 0x03, 0x00, 0xFD, 0x36},
			want: []byte{0xFE, 0x00, 0x00, 0x00, 0x03, 0x00, 0x36, 0x36, 0x36},
		},
		{
			name: "literal cut short",
			in:   []byte{0x05, 'a', 'b'},
			want: []byte{'a', 'b'},
		},
		{
			name: "run without byte",
			in:   []byte{0x01, 'a', 0xFA},
			want: []byte{'a'},
		},
		{
			name: "empty",
			in:   nil,
			want: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decompress(tt.in))
		})
	}
}

func TestDecompressInvertsCompress(t *testing.T) {
	data := concat([]byte("Firebird"), repeat(0, 300), []byte{1, 2, 2, 3, 3, 3}, repeat(' ', 40))
	assert.Equal(t, data, Decompress(storagetest.Compress(data)))
}

func TestParseRecordFragment(t *testing.T) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint32(raw[0:4], uint32(0xFFFFFFFF))
	binary.LittleEndian.PutUint32(raw[4:8], 77)
	binary.LittleEndian.PutUint16(raw[8:10], 3)
	binary.LittleEndian.PutUint16(raw[10:12], RecordDeleted|RecordBlob)
	raw[12] = 2
	copy(raw[13:], []byte{0x02, 'o', 'k'})

	rec, err := ParseRecordFragment(raw)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), rec.Transaction)
	assert.Equal(t, int32(77), rec.BackPage)
	assert.Equal(t, uint16(3), rec.BackLine)
	assert.Equal(t, uint8(2), rec.Format)
	assert.True(t, rec.HasFlag(RecordDeleted))
	assert.True(t, rec.HasFlag(RecordBlob))
	assert.False(t, rec.HasFlag(RecordChain))
	assert.Equal(t, []byte("ok"), rec.Decode())

	_, err = ParseRecordFragment(raw[:12])
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrCorrupted))
}
