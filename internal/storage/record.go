package storage

import (
	"encoding/binary"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Record header flag bits.
const (
	RecordDeleted    uint16 = 1 << 0
	RecordChain      uint16 = 1 << 1
	RecordFragmented uint16 = 1 << 2
	RecordIncomplete uint16 = 1 << 3
	RecordBlob       uint16 = 1 << 4
	RecordStreamBlob uint16 = 1 << 5
	RecordLarge      uint16 = 1 << 6
	RecordDamaged    uint16 = 1 << 7
	RecordGCActive   uint16 = 1 << 8
)

// RecordFragment is the on-page form of a row (or part of one).
type RecordFragment struct {
	Transaction int32
	BackPage    int32
	BackLine    uint16
	Flags       uint16
	Format      uint8
	// Data is the run-length compressed payload.
	Data []byte
}

// ParseRecordFragment unpacks the 13-byte record prefix. Data aliases the
// input; the page bytes it points into are never modified.
func ParseRecordFragment(data []byte) (*RecordFragment, error) {
	if len(data) < RecordHeaderSize {
		return nil, util.NewError(util.ErrCorrupted, "record fragment too short",
			util.Overflow("record header", len(data), RecordHeaderSize))
	}

	return &RecordFragment{
		Transaction: int32(binary.LittleEndian.Uint32(data[0:4])),
		BackPage:    int32(binary.LittleEndian.Uint32(data[4:8])),
		BackLine:    binary.LittleEndian.Uint16(data[8:10]),
		Flags:       binary.LittleEndian.Uint16(data[10:12]),
		Format:      data[12],
		Data:        data[RecordHeaderSize:],
	}, nil
}

func (r *RecordFragment) HasFlag(flag uint16) bool {
	return r.Flags&flag != 0
}

// Decode returns the decompressed record bytes.
func (r *RecordFragment) Decode() []byte {
	return Decompress(r.Data)
}

// Decompress reverses the engine's run-length encoding. The stream is a
// sequence of signed control bytes:
//
//	n > 0: the next n bytes are stored verbatim
//	n < 0: the next byte is repeated -n times
//	n = 0: end of data
//
// Running out of input ends the stream as well.
func Decompress(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)

	for i := 0; i < len(data); {
		n := int(int8(data[i]))
		i++

		switch {
		case n == 0:
			return out
		case n > 0:
			end := i + n
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return out
			}
			b := data[i]
			i++
			for j := 0; j < -n; j++ {
				out = append(out, b)
			}
		}
	}

	return out
}
