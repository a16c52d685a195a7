// Package storagetest builds small synthetic database images for tests.
package storagetest

import (
	"encoding/binary"
	"fmt"
)

const (
	headerSize   = 1024
	dataPageHead = 24
	slotSize     = 4
	recordPrefix = 13

	TagHeader    = 0x01
	TagInventory = 0x02
	TagTIP       = 0x03
	TagData      = 0x05
	TagIndex     = 0x07
)

// Builder lays out a database image page by page.
type Builder struct {
	PageSize   int
	ODSVersion uint16
	ODSMinor   uint16
	pages      [][]byte
	sequence   map[uint16]uint32
}

func NewBuilder(pageSize int) *Builder {
	return &Builder{
		PageSize:   pageSize,
		ODSVersion: 0x800D,
		ODSMinor:   0,
		sequence:   make(map[uint16]uint32),
	}
}

// Page appends a page of the given type with an empty body.
func (b *Builder) Page(tag byte) *Builder {
	page := make([]byte, b.PageSize)
	page[0] = tag
	binary.LittleEndian.PutUint32(page[12:16], uint32(len(b.pages)+1))
	b.pages = append(b.pages, page)
	return b
}

// DataPage appends a data page owned by relation. Each record is the
// decompressed record content; a nil record leaves a hole in the slot table.
func (b *Builder) DataPage(relation uint16, records ...[]byte) *Builder {
	page := make([]byte, b.PageSize)
	page[0] = TagData
	binary.LittleEndian.PutUint32(page[12:16], uint32(len(b.pages)+1))
	binary.LittleEndian.PutUint32(page[16:20], b.sequence[relation])
	binary.LittleEndian.PutUint16(page[20:22], relation)
	binary.LittleEndian.PutUint16(page[22:24], uint16(len(records)))
	b.sequence[relation]++

	top := b.PageSize
	for i, rec := range records {
		if rec == nil {
			continue
		}
		frag := Fragment(rec)
		top -= len(frag)
		top &^= 3
		if top < dataPageHead+len(records)*slotSize {
			panic(fmt.Sprintf("storagetest: records for relation %d do not fit a %d byte page", relation, b.PageSize))
		}
		copy(page[top:], frag)

		slot := dataPageHead + i*slotSize
		binary.LittleEndian.PutUint16(page[slot:], uint16(top))
		binary.LittleEndian.PutUint16(page[slot+2:], uint16(len(frag)))
	}

	b.pages = append(b.pages, page)
	return b
}

// RawPage appends page verbatim; it is padded or cut to the page size.
func (b *Builder) RawPage(page []byte) *Builder {
	p := make([]byte, b.PageSize)
	copy(p, page)
	b.pages = append(b.pages, p)
	return b
}

// Header returns the header page.
func (b *Builder) Header() []byte {
	hdr := make([]byte, b.PageSize)
	hdr[0] = TagHeader
	binary.LittleEndian.PutUint16(hdr[16:18], uint16(b.PageSize))
	binary.LittleEndian.PutUint16(hdr[18:20], b.ODSVersion)
	binary.LittleEndian.PutUint32(hdr[20:24], 1)
	binary.LittleEndian.PutUint32(hdr[28:32], 10)
	binary.LittleEndian.PutUint32(hdr[32:36], 11)
	binary.LittleEndian.PutUint32(hdr[36:40], 12)
	binary.LittleEndian.PutUint16(hdr[64:66], b.ODSMinor)
	binary.LittleEndian.PutUint32(hdr[68:72], 2048)
	return hdr
}

// Bytes returns the full image.
func (b *Builder) Bytes() []byte {
	out := b.Header()
	for _, p := range b.pages {
		out = append(out, p...)
	}
	return out
}

// Fragment prefixes the compressed record with a record header.
func Fragment(record []byte) []byte {
	frag := make([]byte, recordPrefix)
	binary.LittleEndian.PutUint32(frag[0:4], 1)
	frag[12] = 1
	return append(frag, Compress(record)...)
}

// Compress run-length encodes data the way the engine does: runs of three or
// more equal bytes become a negative count and the byte, everything else is
// copied behind a positive count.
func Compress(data []byte) []byte {
	out := make([]byte, 0, len(data))
	lit := make([]byte, 0, 127)

	flush := func() {
		if len(lit) > 0 {
			out = append(out, byte(len(lit)))
			out = append(out, lit...)
			lit = lit[:0]
		}
	}

	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && data[i+run] == data[i] && run < 128 {
			run++
		}
		if run >= 3 {
			flush()
			out = append(out, byte(int8(-run)), data[i])
			i += run
			continue
		}
		lit = append(lit, data[i])
		if len(lit) == 127 {
			flush()
		}
		i++
	}
	flush()
	return out
}
