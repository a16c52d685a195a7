package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// PageHeader is the 16-byte header every page starts with.
type PageHeader struct {
	Type       PageType
	Flags      uint8
	Reserved   uint16
	Generation uint32
	SCN        uint32
	PageNumber uint32
}

// ParsePageHeader unpacks the standard page header from the start of data.
func ParsePageHeader(data []byte) (PageHeader, error) {
	if len(data) < PageHeaderSize {
		return PageHeader{}, util.Overflow("page header", len(data), PageHeaderSize)
	}

	return PageHeader{
		Type:       PageType(data[0]),
		Flags:      data[1],
		Reserved:   binary.LittleEndian.Uint16(data[2:4]),
		Generation: binary.LittleEndian.Uint32(data[4:8]),
		SCN:        binary.LittleEndian.Uint32(data[8:12]),
		PageNumber: binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// DatabaseHeader is the first page of the database file. It describes the
// page size, the on-disk structure version and the transaction counters.
type DatabaseHeader struct {
	Page              PageHeader
	PageSize          uint16
	ODSVersion        uint16
	PagesPage         uint32 // first page of the RDB$PAGES relation
	NextHeaderPage    uint32
	OldestTransaction uint32
	OldestActive      uint32
	NextTransaction   uint32
	Sequence          uint16
	Flags             uint16
	CreationDate      [2]int32
	AttachmentID      uint32
	ShadowCount       int32
	CPU               uint8
	OS                uint8
	Compiler          uint8
	Compatibility     uint8
	ODSMinor          uint16
	End               uint16
	PageBuffers       uint32
	OldestSnapshot    uint32
	BackupPages       int32
	CryptPage         uint32
	CryptPlugin       string
}

// ParseDatabaseHeader decodes the fixed header block. The block must be
// HeaderSize bytes and start with the header page tag.
func ParseDatabaseHeader(data []byte) (*DatabaseHeader, error) {
	if len(data) < HeaderSize {
		return nil, util.NewError(util.ErrCorrupted, "database header too short",
			util.Overflow("header bytes", len(data), HeaderSize))
	}

	pag, err := ParsePageHeader(data)
	if err != nil {
		return nil, err
	}
	if pag.Type != PageTypeHeader {
		return nil, util.InvalidPageType("header", uint8(pag.Type), uint8(PageTypeHeader))
	}

	le := binary.LittleEndian
	hdr := &DatabaseHeader{
		Page:              pag,
		PageSize:          le.Uint16(data[16:18]),
		ODSVersion:        le.Uint16(data[18:20]),
		PagesPage:         le.Uint32(data[20:24]),
		NextHeaderPage:    le.Uint32(data[24:28]),
		OldestTransaction: le.Uint32(data[28:32]),
		OldestActive:      le.Uint32(data[32:36]),
		NextTransaction:   le.Uint32(data[36:40]),
		Sequence:          le.Uint16(data[40:42]),
		Flags:             le.Uint16(data[42:44]),
		CreationDate:      [2]int32{int32(le.Uint32(data[44:48])), int32(le.Uint32(data[48:52]))},
		AttachmentID:      le.Uint32(data[52:56]),
		ShadowCount:       int32(le.Uint32(data[56:60])),
		CPU:               data[60],
		OS:                data[61],
		Compiler:          data[62],
		Compatibility:     data[63],
		ODSMinor:          le.Uint16(data[64:66]),
		End:               le.Uint16(data[66:68]),
		PageBuffers:       le.Uint32(data[68:72]),
		OldestSnapshot:    le.Uint32(data[72:76]),
		BackupPages:       int32(le.Uint32(data[76:80])),
		CryptPage:         le.Uint32(data[80:84]),
		CryptPlugin:       string(bytes.TrimRight(data[84:116], "\x00 ")),
	}

	if hdr.PageSize < HeaderSize {
		return nil, util.NewError(util.ErrCorrupted, "page size smaller than the header",
			util.Overflow("header bytes", int(hdr.PageSize), HeaderSize))
	}

	return hdr, nil
}

// ODS returns the on-disk structure version as "major.minor".
func (h *DatabaseHeader) ODS() string {
	// Bit 15 flags a Firebird (as opposed to InterBase) structure.
	return fmt.Sprintf("%d.%d", h.ODSVersion&0x7FFF, h.ODSMinor)
}
