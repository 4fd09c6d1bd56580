package vm

import "fmt"

// A Page is an entry in the page table, maintaining the information about how
// to translate a page number to a frame number.
type Page struct {
	PageNumber  uint8
	FrameNumber uint8
	Valid       bool
}

// A PageTable maps page numbers to frame numbers. Every page starts unmapped
// and is mapped at most once.
type PageTable interface {
	// Lookup returns the frame that holds the page, if the page is mapped.
	Lookup(pageNumber uint8) (frameNumber uint8, found bool)

	// Map installs a mapping. Mapping a page that is already mapped returns
	// ErrPageAlreadyMapped and leaves the existing mapping in place.
	Map(pageNumber, frameNumber uint8) error

	// Pages returns all the valid entries, ordered by page number.
	Pages() []Page

	// NumMapped returns the number of pages that have a frame.
	NumMapped() int
}

// NewPageTable creates a new PageTable with all the pages unmapped.
func NewPageTable() PageTable {
	return &pageTableImpl{}
}

// pageTableImpl is the default implementation of a PageTable. It is a flat
// array indexed by the page number.
type pageTableImpl struct {
	entries   [NumPages]Page
	numMapped int
}

func (pt *pageTableImpl) Lookup(pageNumber uint8) (uint8, bool) {
	entry := pt.entries[pageNumber]
	if !entry.Valid {
		return 0, false
	}

	return entry.FrameNumber, true
}

func (pt *pageTableImpl) Map(pageNumber, frameNumber uint8) error {
	entry := &pt.entries[pageNumber]
	if entry.Valid {
		return fmt.Errorf("%w: page %d is in frame %d",
			ErrPageAlreadyMapped, pageNumber, entry.FrameNumber)
	}

	entry.PageNumber = pageNumber
	entry.FrameNumber = frameNumber
	entry.Valid = true
	pt.numMapped++

	return nil
}

func (pt *pageTableImpl) Pages() []Page {
	pages := make([]Page, 0, pt.numMapped)
	for _, entry := range pt.entries {
		if entry.Valid {
			pages = append(pages, entry)
		}
	}

	return pages
}

func (pt *pageTableImpl) NumMapped() int {
	return pt.numMapped
}
