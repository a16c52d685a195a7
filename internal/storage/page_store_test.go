package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/ghosecorp/fdbreader/internal/storage/storagetest"
	"github.com/ghosecorp/fdbreader/internal/util"
)

func TestLoadPageStore(t *testing.T) {
	img := storagetest.Sample()

	ps, err := LoadPageStore(bytes.NewReader(img), util.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, uint16(4096), ps.Header().PageSize)
	assert.Equal(t, 11, ps.TotalPages())
	assert.Len(t, ps.Pages(), 7)
	assert.Equal(t, int64(len(img)), ps.Size())

	digest := blake3.Sum256(img)
	assert.Equal(t, digest[:], ps.Digest())

	counts := ps.PageCounts()
	assert.Equal(t, 1, counts[PageTypeHeader])
	assert.Equal(t, 7, counts[PageTypeData])
	assert.Equal(t, 1, counts[PageTypeIndexNode])
	assert.Equal(t, 1, counts[PageTypeTIP])

	assert.Equal(t, []uint16{2, 5, 6, 128, 131}, ps.Relations())

	countryPages := ps.RelationPages(128)
	require.Len(t, countryPages, 2)
	assert.Equal(t, 5, countryPages[0].Index)
	assert.Equal(t, 8, countryPages[1].Index)
	assert.Equal(t, uint32(1), countryPages[1].Sequence)
	assert.Empty(t, ps.RelationPages(999))
}

func TestPageStoreRecordBytes(t *testing.T) {
	ps, err := LoadPageStore(bytes.NewReader(storagetest.Sample()), nil)
	require.NoError(t, err)

	// Data page 3 of the sample is the first COUNTRY page.
	data, err := ps.RecordBytes(3, 0)
	require.NoError(t, err)
	assert.Equal(t, storagetest.Row(storagetest.VarcharValue("USA", 15), storagetest.VarcharValue("Dollar", 10)), data)

	data, err = ps.RecordBytes(3, 1)
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = ps.RecordBytes(70, 0)
	assert.True(t, util.HasCode(err, util.ErrInvalidArgument))
}

func TestLoadPageStoreTrailingBytes(t *testing.T) {
	b := storagetest.NewBuilder(1024).DataPage(128, []byte("row"))
	img := b.Bytes()

	// A partial non-data page at the end is ignored.
	withTail := append(append([]byte{}, img...), byte(PageTypeIndexNode), 0, 0)
	ps, err := LoadPageStore(bytes.NewReader(withTail), nil)
	require.NoError(t, err)
	assert.Len(t, ps.Pages(), 1)

	// A partial data page is an error.
	cut := img[:len(img)-10]
	_, err = LoadPageStore(bytes.NewReader(cut), nil)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrIO))
}

func TestLoadPageStoreHeaderErrors(t *testing.T) {
	_, err := LoadPageStore(bytes.NewReader(make([]byte, 200)), nil)
	assert.True(t, util.HasCode(err, util.ErrIO))

	img := storagetest.Sample()
	img[0] = 0x05
	_, err = LoadPageStore(bytes.NewReader(img), nil)
	assert.True(t, util.HasCode(err, util.ErrInvalidPageType))

	// Header only, shorter than a page.
	hdr := storagetest.NewBuilder(4096).Header()[:2000]
	ps, err := LoadPageStore(bytes.NewReader(hdr), nil)
	require.NoError(t, err)
	assert.Empty(t, ps.Pages())
}
