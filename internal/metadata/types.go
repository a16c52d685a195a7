package metadata

import (
	"encoding/binary"
	"strings"
)

// ObjectType identifies which catalog relation an entry was read from.
type ObjectType uint8

const (
	ObjTypeInvalid ObjectType = iota
	ObjTypeRelation
	ObjTypeRelationField
	ObjTypeField
)

func (t ObjectType) String() string {
	switch t {
	case ObjTypeRelation:
		return "RDB$RELATIONS"
	case ObjTypeRelationField:
		return "RDB$RELATION_FIELDS"
	case ObjTypeField:
		return "RDB$FIELDS"
	default:
		return "INVALID"
	}
}

// Minimum decoded record lengths. Shorter records are not catalog rows of
// the relation and are skipped.
const (
	MinRelationRecord      = 72
	MinRelationFieldRecord = 66
	MinFieldRecord         = 30
)

// RelationEntry is one row of RDB$RELATIONS.
type RelationEntry struct {
	ID   uint16
	Name string
}

// IsSystem reports an engine-owned relation.
func (e RelationEntry) IsSystem() bool {
	return strings.Contains(e.Name, "$")
}

// ParseRelation reads a decoded RDB$RELATIONS record.
func ParseRelation(data []byte) (RelationEntry, bool) {
	if len(data) < MinRelationRecord {
		return RelationEntry{}, false
	}
	return RelationEntry{
		ID:   uint16(byteAt(data, 32)),
		Name: textAt(data, 42, 72),
	}, true
}

// RelationFieldEntry is one row of RDB$RELATION_FIELDS: a column of a
// relation and the RDB$FIELDS entry that defines its type.
type RelationFieldEntry struct {
	Name     string
	Relation string
	Source   string
	Position int
	NotNull  bool
}

// ParseRelationField reads a decoded RDB$RELATION_FIELDS record. Fields past
// the end of a short record read as zero.
func ParseRelationField(data []byte) (RelationFieldEntry, bool) {
	if len(data) < MinRelationFieldRecord {
		return RelationFieldEntry{}, false
	}
	return RelationFieldEntry{
		Name:     textAt(data, 4, 35),
		Relation: textAt(data, 35, 66),
		Source:   textAt(data, 65, 96),
		Position: int(byteAt(data, 290)),
		NotNull:  byteAt(data, 392) != 0,
	}, true
}

// FieldEntry is one row of RDB$FIELDS.
type FieldEntry struct {
	Name     string
	Computed bool
	Size     int
	Scale    int16
	TypeCode int16
}

// ParseField reads a decoded RDB$FIELDS record.
func ParseField(data []byte) (FieldEntry, bool) {
	if len(data) < MinFieldRecord {
		return FieldEntry{}, false
	}
	return FieldEntry{
		Name:     textAt(data, 4, 35),
		Computed: byteAt(data, 88) > 0,
		Size:     int(byteAt(data, 120)),
		Scale:    int16At(data, 122),
		TypeCode: int16At(data, 124),
	}, true
}

func byteAt(data []byte, off int) uint8 {
	if off >= len(data) {
		return 0
	}
	return data[off]
}

func int16At(data []byte, off int) int16 {
	if off+2 > len(data) {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(data[off : off+2]))
}

// textAt returns data[from:to] as trimmed text, clamped to the record.
// Catalog names are stored in UTF-8 but invalid sequences are replaced
// rather than rejected.
func textAt(data []byte, from, to int) string {
	if to > len(data) {
		to = len(data)
	}
	if from >= to {
		return ""
	}
	s := strings.ToValidUTF8(string(data[from:to]), "�")
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
