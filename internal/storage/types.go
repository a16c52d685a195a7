package storage

import "fmt"

// PageType is the tag stored in the first byte of every page.
type PageType uint8

const (
	PageTypeUnused    PageType = 0x00
	PageTypeHeader    PageType = 0x01
	PageTypeInventory PageType = 0x02 // page inventory
	PageTypeTIP       PageType = 0x03 // transaction inventory
	PageTypePointer   PageType = 0x04
	PageTypeData      PageType = 0x05
	PageTypeIndexRoot PageType = 0x06
	PageTypeIndexNode PageType = 0x07 // b-tree
	PageTypeBlob      PageType = 0x08
	PageTypeGenerator PageType = 0x09
	PageTypeSCN       PageType = 0x0A // SCN inventory
)

func (pt PageType) String() string {
	switch pt {
	case PageTypeUnused:
		return "UNUSED"
	case PageTypeHeader:
		return "HEADER"
	case PageTypeInventory:
		return "PAGE_INVENTORY"
	case PageTypeTIP:
		return "TRANSACTION_INVENTORY"
	case PageTypePointer:
		return "POINTER"
	case PageTypeData:
		return "DATA"
	case PageTypeIndexRoot:
		return "INDEX_ROOT"
	case PageTypeIndexNode:
		return "INDEX_BTREE"
	case PageTypeBlob:
		return "BLOB"
	case PageTypeGenerator:
		return "GENERATOR"
	case PageTypeSCN:
		return "SCN_INVENTORY"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(pt))
	}
}

const (
	HeaderSize     = 1024
	PageHeaderSize = 16

	// Data page layout after the page header.
	DataPageHeaderSize = 24
	SlotSize           = 4 // Offset(2) + Length(2)

	// Record fragment prefix: transaction(4) + back page(4) + back line(2) + flags(2) + format(1).
	RecordHeaderSize = 13

	// The first bytes of every decompressed record precede the first column.
	RowPrefixSize = 4
)

// Relation IDs of the catalog tables the schema is recovered from.
const (
	RelationFields         uint16 = 2 // RDB$FIELDS
	RelationRelationFields uint16 = 5 // RDB$RELATION_FIELDS
	RelationRelations      uint16 = 6 // RDB$RELATIONS
)

// ColumnType is the field type code stored in RDB$FIELDS.
type ColumnType int16

const (
	TypeSmallint        ColumnType = 7
	TypeInteger         ColumnType = 8
	TypeFloat           ColumnType = 10
	TypeDate            ColumnType = 12
	TypeTime            ColumnType = 13
	TypeChar            ColumnType = 14
	TypeBigint          ColumnType = 16
	TypeDoublePrecision ColumnType = 27
	TypeTimestamp       ColumnType = 35
	TypeVarchar         ColumnType = 37
	TypeBlob            ColumnType = 261
)

// ParseColumnType maps a catalog type code onto a known ColumnType.
func ParseColumnType(code int16) (ColumnType, bool) {
	switch ct := ColumnType(code); ct {
	case TypeSmallint, TypeInteger, TypeFloat, TypeDate, TypeTime, TypeChar,
		TypeBigint, TypeDoublePrecision, TypeTimestamp, TypeVarchar, TypeBlob:
		return ct, true
	default:
		return 0, false
	}
}

func (ct ColumnType) String() string {
	switch ct {
	case TypeSmallint:
		return "Smallint"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeDate:
		return "Date"
	case TypeTime:
		return "Time"
	case TypeChar:
		return "Char"
	case TypeBigint:
		return "Bigint"
	case TypeDoublePrecision:
		return "DoublePrecision"
	case TypeTimestamp:
		return "Timestamp"
	case TypeVarchar:
		return "Varchar"
	case TypeBlob:
		return "Blob"
	default:
		return fmt.Sprintf("Unknown(%d)", int16(ct))
	}
}

// IsText returns true for the character types.
func (ct ColumnType) IsText() bool {
	return ct == TypeChar || ct == TypeVarchar
}

// SQLiteType returns the declared type used when exporting the column.
func (ct ColumnType) SQLiteType() string {
	switch ct {
	case TypeSmallint, TypeInteger:
		return "INTEGER"
	case TypeChar, TypeVarchar:
		return "TEXT"
	default:
		return "BLOB"
	}
}
