// Package tlb provides a translation lookaside buffer that caches recent
// page-to-frame mappings.
package tlb

import (
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/tlb/internal"
)

// Comp is a cache (TLB) that maintains the most recently inserted mappings.
//
// Entries are kept in insertion order and are only ever removed by being
// overwritten once the TLB is full. A lookup returns the oldest matching
// entry.
type Comp struct {
	name string
	ring internal.Ring

	numLookups uint64
	numHits    uint64
}

// Name returns the name of the TLB.
func (c *Comp) Name() string {
	return c.name
}

// Lookup returns the frame cached for the page.
func (c *Comp) Lookup(pageNumber uint8) (frameNumber uint8, found bool) {
	c.numLookups++

	page, found := c.ring.Lookup(pageNumber)
	if !found {
		return 0, false
	}

	c.numHits++

	return page.FrameNumber, true
}

// Insert appends a mapping, overwriting the oldest one if the TLB is full.
// Duplicated mappings are allowed.
func (c *Comp) Insert(pageNumber, frameNumber uint8) {
	c.ring.Insert(vm.Page{
		PageNumber:  pageNumber,
		FrameNumber: frameNumber,
		Valid:       true,
	})
}

// Entries returns the valid entries, from the oldest to the newest.
func (c *Comp) Entries() []vm.Page {
	return c.ring.Entries()
}

// Len returns the number of valid entries.
func (c *Comp) Len() int {
	return c.ring.Len()
}

// Capacity returns the maximum number of entries.
func (c *Comp) Capacity() int {
	return c.ring.Capacity()
}

// NumLookups returns how many lookups have been performed.
func (c *Comp) NumLookups() uint64 {
	return c.numLookups
}

// NumHits returns how many lookups have found a mapping.
func (c *Comp) NumHits() uint64 {
	return c.numHits
}

// Reset invalidates all the entries and clears the counters.
func (c *Comp) Reset() {
	c.ring.Reset()
	c.numLookups = 0
	c.numHits = 0
}
