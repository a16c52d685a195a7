package storage

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// PageStore holds every data page of a database file. It is filled once by
// LoadPageStore and only read afterwards, so tables and cursors share it by
// pointer.
type PageStore struct {
	header     *DatabaseHeader
	pages      []*DataPage
	byRelation map[uint16][]int
	pageCounts map[PageType]int
	totalPages int
	size       int64
	digest     []byte
}

// LoadPageStore reads a database image from r. The header block comes first;
// the rest of the image is consumed in page-size blocks of which only data
// pages are kept.
func LoadPageStore(r io.Reader, logger *util.Logger) (*PageStore, error) {
	if logger == nil {
		logger = util.NewNopLogger()
	}

	hasher := blake3.New()
	counter := &countingReader{r: r}
	src := io.TeeReader(counter, hasher)

	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(src, head); err != nil {
		return nil, util.NewError(util.ErrIO, "failed to read database header", err)
	}
	hdr, err := ParseDatabaseHeader(head)
	if err != nil {
		return nil, err
	}

	ps := &PageStore{
		header:     hdr,
		byRelation: make(map[uint16][]int),
		pageCounts: map[PageType]int{PageTypeHeader: 1},
		totalPages: 1,
	}

	pageSize := int(hdr.PageSize)
	logger.Debug("Page size %d, ODS %s", pageSize, hdr.ODS())

	// The rest of page 0 belongs to the header.
	if _, err := io.CopyN(io.Discard, src, int64(pageSize-HeaderSize)); err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, util.NewError(util.ErrIO, "failed to skip header page", err)
		}
		logger.Warn("File ends inside the header page")
		ps.finish(counter.n, hasher)
		return ps, nil
	}

	var scratch []byte
	for index := 1; ; index++ {
		if scratch == nil {
			scratch = make([]byte, pageSize)
		}

		n, err := io.ReadFull(src, scratch)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			if PageType(scratch[0]) == PageTypeData {
				return nil, util.NewError(util.ErrIO, fmt.Sprintf("truncated data page %d", index), err)
			}
			logger.Warn("Ignoring %d trailing byte(s) after page %d", n, index-1)
			break
		}
		if err != nil {
			return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to read page %d", index), err)
		}

		ps.totalPages++
		pt := PageType(scratch[0])
		ps.pageCounts[pt]++
		if pt != PageTypeData {
			continue
		}

		dp, err := ParseDataPage(scratch, index)
		if err != nil {
			return nil, err
		}
		ps.byRelation[dp.Relation] = append(ps.byRelation[dp.Relation], len(ps.pages))
		ps.pages = append(ps.pages, dp)
		// The data page keeps the buffer.
		scratch = nil
	}

	ps.finish(counter.n, hasher)
	logger.Info("Loaded %d data page(s) of %d page(s), %d relation(s)",
		len(ps.pages), ps.totalPages, len(ps.byRelation))
	return ps, nil
}

func (ps *PageStore) finish(n int64, hasher *blake3.Hasher) {
	ps.size = n
	ps.digest = hasher.Sum(nil)
}

func (ps *PageStore) Header() *DatabaseHeader {
	return ps.header
}

// Pages returns the data pages in file order.
func (ps *PageStore) Pages() []*DataPage {
	return ps.pages
}

// RelationPages returns the data pages owned by relation, in file order.
func (ps *PageStore) RelationPages(relation uint16) []*DataPage {
	idx := ps.byRelation[relation]
	pages := make([]*DataPage, len(idx))
	for i, p := range idx {
		pages[i] = ps.pages[p]
	}
	return pages
}

// Relations returns every relation ID that owns at least one data page.
func (ps *PageStore) Relations() []uint16 {
	ids := make([]uint16, 0, len(ps.byRelation))
	for id := range ps.byRelation {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PageCounts returns how many pages of each type the file holds, the header
// page included.
func (ps *PageStore) PageCounts() map[PageType]int {
	counts := make(map[PageType]int, len(ps.pageCounts))
	for pt, n := range ps.pageCounts {
		counts[pt] = n
	}
	return counts
}

// TotalPages counts every complete page read, the header page included.
func (ps *PageStore) TotalPages() int {
	return ps.totalPages
}

// Size is the number of bytes read from the source.
func (ps *PageStore) Size() int64 {
	return ps.size
}

// Digest is the BLAKE3 hash of the bytes read from the source.
func (ps *PageStore) Digest() []byte {
	return ps.digest
}

// RecordBytes returns the decompressed record in slot of the data page at
// position page of Pages(), or nil when the slot is empty.
func (ps *PageStore) RecordBytes(page, slot int) ([]byte, error) {
	if page < 0 || page >= len(ps.pages) {
		return nil, util.NewError(util.ErrInvalidArgument, fmt.Sprintf("invalid data page %d", page), nil)
	}
	rec, err := ps.pages[page].Record(slot)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Decode(), nil
}

// scanRelation calls fn with the decoded bytes of every record owned by
// relation, in page and slot order.
func (ps *PageStore) scanRelation(relation uint16, fn func(data []byte) error) error {
	for _, dp := range ps.RelationPages(relation) {
		for slot := range dp.Slots {
			rec, err := dp.Record(slot)
			if err != nil {
				return err
			}
			if rec == nil {
				continue
			}
			if err := fn(rec.Decode()); err != nil {
				return err
			}
		}
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
