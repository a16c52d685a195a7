package storagetest

import "encoding/binary"

// Catalog relation IDs.
const (
	RelFields         uint16 = 2
	RelRelationFields uint16 = 5
	RelRelations      uint16 = 6
)

// Catalog type codes.
const (
	Smallint  int16 = 7
	Integer   int16 = 8
	Char      int16 = 14
	Bigint    int16 = 16
	Timestamp int16 = 35
	Varchar   int16 = 37
	Blob      int16 = 261
)

func padded(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

// RelationRecord builds an RDB$RELATIONS record.
func RelationRecord(id uint8, name string) []byte {
	rec := make([]byte, 80)
	rec[32] = id
	copy(rec[42:72], padded(name, 30))
	return rec
}

// RelationFieldRecord builds an RDB$RELATION_FIELDS record.
func RelationFieldRecord(relation, field, source string, position int, notNull bool) []byte {
	rec := make([]byte, 400)
	copy(rec[4:35], padded(field, 31))
	copy(rec[35:66], padded(relation, 31))
	copy(rec[66:97], padded(source, 31))
	rec[290] = byte(position)
	if notNull {
		rec[392] = 1
	}
	return rec
}

// FieldRecord builds an RDB$FIELDS record.
func FieldRecord(name string, typeCode int16, size int, scale int16, computed bool) []byte {
	rec := make([]byte, 130)
	copy(rec[4:35], padded(name, 31))
	if computed {
		rec[88] = 1
	}
	rec[120] = byte(size)
	binary.LittleEndian.PutUint16(rec[122:124], uint16(scale))
	binary.LittleEndian.PutUint16(rec[124:126], uint16(typeCode))
	return rec
}

// Row joins column images behind the four byte record prefix.
func Row(columns ...[]byte) []byte {
	rec := make([]byte, 4)
	for _, c := range columns {
		rec = append(rec, c...)
	}
	return rec
}

// VarcharValue encodes s as a VARCHAR(size) column image.
func VarcharValue(s string, size int) []byte {
	n := 2 + size + size%2
	b := make([]byte, n)
	b[0] = byte(len(s))
	copy(b[2:], s)
	return b
}

// CharValue encodes s as a CHAR(size) column image.
func CharValue(s string, size int) []byte {
	b := padded(s, size+size%2)
	if size%2 == 1 {
		b[size] = 0
	}
	return b
}

func IntegerValue(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func SmallintValue(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

// Sample returns a small database with three system tables and two user
// tables:
//
//	COUNTRY (128):  COUNTRY VARCHAR(15) NOT NULL, CURRENCY VARCHAR(10) NOT NULL
//	EMPLOYEE (131): EMP_NO SMALLINT NOT NULL, FIRST_NAME VARCHAR(15) NOT NULL,
//	                DEPT_COUNT INTEGER, FULL_NAME computed
//
// COUNTRY holds USA, England and Romania spread over two pages with a hole
// in the first. EMPLOYEE holds two rows.
func Sample() []byte {
	b := NewBuilder(4096)

	b.Page(TagInventory)
	b.DataPage(RelRelations,
		RelationRecord(0, "RDB$PAGES"),
		nil,
		RelationRecord(2, "RDB$FIELDS"),
		make([]byte, 40),
		RelationRecord(128, "COUNTRY"),
	)
	b.DataPage(RelFields,
		FieldRecord("COUNTRYNAME", Varchar, 15, 0, false),
		FieldRecord("CURRENCY", Varchar, 10, 0, false),
		FieldRecord("EMPNO", Smallint, 2, 0, false),
		FieldRecord("FIRSTNAME", Varchar, 15, 0, false),
		FieldRecord("RDB$1", Integer, 4, 0, false),
		FieldRecord("RDB$9", Varchar, 37, 0, true),
	)
	b.DataPage(RelRelationFields,
		RelationFieldRecord("COUNTRY", "COUNTRY", "COUNTRYNAME", 0, true),
		RelationFieldRecord("COUNTRY", "CURRENCY", "CURRENCY", 1, true),
		RelationFieldRecord("EMPLOYEE", "FIRST_NAME", "FIRSTNAME", 1, true),
		RelationFieldRecord("EMPLOYEE", "EMP_NO", "EMPNO", 0, true),
		RelationFieldRecord("EMPLOYEE", "DEPT_COUNT", "RDB$1", 2, false),
		RelationFieldRecord("EMPLOYEE", "FULL_NAME", "RDB$9", 3, false),
	)
	b.DataPage(128,
		Row(VarcharValue("USA", 15), VarcharValue("Dollar", 10)),
		nil,
		Row(VarcharValue("England", 15), VarcharValue("Pound", 10)),
	)
	b.Page(TagIndex)
	b.DataPage(RelRelations,
		RelationRecord(131, "EMPLOYEE"),
		RelationRecord(1, "RDB$DATABASE"),
	)
	b.DataPage(128,
		Row(VarcharValue("Romania", 15), VarcharValue("RLeu", 10)),
	)
	b.DataPage(131,
		Row(SmallintValue(2), VarcharValue("Robert", 15), IntegerValue(5)),
		Row(SmallintValue(4), VarcharValue("Bruce", 15), IntegerValue(-1)),
	)
	b.Page(TagTIP)

	return b.Bytes()
}
