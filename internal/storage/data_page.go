package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Slot is one entry of a data page's table of contents.
type Slot struct {
	Offset uint16
	Length uint16
}

// IsHole reports an unused directory entry.
func (s Slot) IsHole() bool {
	return s.Offset == 0 && s.Length == 0
}

// DataPage holds the record fragments of a single relation. The slot directory
// grows from the top of the page while the fragments it points to fill the page
// from the bottom.
type DataPage struct {
	Header PageHeader
	// Index is the position of the page in the file (the header page is 0).
	Index int
	// Sequence is the position of this page in its relation's page list.
	Sequence uint32
	Relation uint16
	Count    uint16
	Slots    []Slot
	Raw      []byte
}

// ParseDataPage decodes a data page. The page keeps data as its raw content;
// record fragments are sliced out of it on demand.
func ParseDataPage(data []byte, index int) (*DataPage, error) {
	if len(data) < DataPageHeaderSize {
		return nil, util.NewError(util.ErrCorrupted, fmt.Sprintf("page %d too short for a data page", index),
			util.Overflow("data page header", len(data), DataPageHeaderSize))
	}

	hdr, err := ParsePageHeader(data)
	if err != nil {
		return nil, err
	}
	if hdr.Type != PageTypeData {
		return nil, util.InvalidPageType("data", uint8(hdr.Type), uint8(PageTypeData))
	}

	dp := &DataPage{
		Header:   hdr,
		Index:    index,
		Sequence: binary.LittleEndian.Uint32(data[16:20]),
		Relation: binary.LittleEndian.Uint16(data[20:22]),
		Count:    binary.LittleEndian.Uint16(data[22:24]),
		Raw:      data,
	}

	capacity := (len(data) - DataPageHeaderSize) / SlotSize
	if int(dp.Count) > capacity {
		return nil, util.Overflow(fmt.Sprintf("record slots on page %d", index), capacity, int(dp.Count))
	}

	dp.Slots = make([]Slot, dp.Count)
	for i := range dp.Slots {
		slotOffset := DataPageHeaderSize + i*SlotSize
		dp.Slots[i] = Slot{
			Offset: binary.LittleEndian.Uint16(data[slotOffset : slotOffset+2]),
			Length: binary.LittleEndian.Uint16(data[slotOffset+2 : slotOffset+4]),
		}
	}

	return dp, nil
}

// Record returns the fragment stored in slot idx, or nil when the slot holds
// no record.
func (dp *DataPage) Record(idx int) (*RecordFragment, error) {
	if idx < 0 || idx >= len(dp.Slots) {
		return nil, util.NewError(util.ErrInvalidArgument, fmt.Sprintf("invalid slot %d on page %d", idx, dp.Index), nil)
	}

	slot := dp.Slots[idx]
	if slot.Length == 0 {
		return nil, nil
	}

	end := int(slot.Offset) + int(slot.Length)
	if end > len(dp.Raw) {
		return nil, util.Overflow(fmt.Sprintf("slot %d on page %d", idx, dp.Index), len(dp.Raw), end)
	}

	return ParseRecordFragment(dp.Raw[slot.Offset:end])
}

// Records returns every non-empty fragment on the page in slot order.
func (dp *DataPage) Records() ([]*RecordFragment, error) {
	records := make([]*RecordFragment, 0, len(dp.Slots))

	for i := range dp.Slots {
		rec, err := dp.Record(i)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}

	return records, nil
}

// FreeSpace returns the bytes between the end of the slot directory and the
// lowest fragment offset.
func (dp *DataPage) FreeSpace() int {
	freeStart := DataPageHeaderSize + len(dp.Slots)*SlotSize
	freeEnd := len(dp.Raw)
	for _, s := range dp.Slots {
		if s.Length > 0 && int(s.Offset) < freeEnd {
			freeEnd = int(s.Offset)
		}
	}
	if freeEnd < freeStart {
		return 0
	}
	return freeEnd - freeStart
}
