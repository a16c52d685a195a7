package storage

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghosecorp/fdbreader/internal/storage/storagetest"
	"github.com/ghosecorp/fdbreader/internal/util"
)

func TestParseDatabaseHeader(t *testing.T) {
	b := storagetest.NewBuilder(8192)
	b.ODSMinor = 2

	hdr, err := ParseDatabaseHeader(b.Header()[:HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, uint16(8192), hdr.PageSize)
	assert.Equal(t, PageTypeHeader, hdr.Page.Type)
	assert.Equal(t, "13.2", hdr.ODS())
	assert.Equal(t, uint32(12), hdr.NextTransaction)
	assert.Equal(t, uint32(2048), hdr.PageBuffers)
}

func TestParseDatabaseHeaderRejectsWrongTag(t *testing.T) {
	data := storagetest.NewBuilder(4096).Header()
	data[0] = byte(PageTypeIndexNode)

	_, err := ParseDatabaseHeader(data)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrInvalidPageType))

	var pte *util.PageTypeError
	require.True(t, errors.As(err, &pte))
	assert.Equal(t, uint8(0x07), pte.Found)
	assert.Equal(t, uint8(0x01), pte.Expected)
}

func TestParseDatabaseHeaderLimits(t *testing.T) {
	_, err := ParseDatabaseHeader(make([]byte, 100))
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrCorrupted))

	data := storagetest.NewBuilder(4096).Header()
	binary.LittleEndian.PutUint16(data[16:18], 512)
	_, err = ParseDatabaseHeader(data)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrOverflow))
}

func TestParsePageHeader(t *testing.T) {
	data := make([]byte, PageHeaderSize)
	data[0] = byte(PageTypeData)
	data[1] = 0x04
	binary.LittleEndian.PutUint32(data[4:8], 9)
	binary.LittleEndian.PutUint32(data[12:16], 42)

	hdr, err := ParsePageHeader(data)
	require.NoError(t, err)
	assert.Equal(t, PageTypeData, hdr.Type)
	assert.Equal(t, uint8(0x04), hdr.Flags)
	assert.Equal(t, uint32(9), hdr.Generation)
	assert.Equal(t, uint32(42), hdr.PageNumber)

	_, err = ParsePageHeader(data[:10])
	assert.True(t, util.HasCode(err, util.ErrOverflow))
}

func TestPageTypeString(t *testing.T) {
	assert.Equal(t, "DATA", PageTypeData.String())
	assert.Equal(t, "INDEX_BTREE", PageTypeIndexNode.String())
	assert.Equal(t, "UNKNOWN(0x2a)", PageType(0x2A).String())
}

func TestColumnTypeCodes(t *testing.T) {
	ct, ok := ParseColumnType(37)
	require.True(t, ok)
	assert.Equal(t, TypeVarchar, ct)
	assert.Equal(t, "Varchar", ct.String())
	assert.True(t, ct.IsText())
	assert.Equal(t, "TEXT", ct.SQLiteType())

	_, ok = ParseColumnType(9)
	assert.False(t, ok)
	assert.Equal(t, "Unknown(9)", ColumnType(9).String())
	assert.Equal(t, "INTEGER", TypeSmallint.SQLiteType())
	assert.Equal(t, "BLOB", TypeTimestamp.SQLiteType())
}
