// Package internal provides the storage structure behind the TLB.
package internal

import "github.com/sarchlab/pagesim/mem/vm"

// A Ring holds a fixed number of pages in insertion order. When the ring is
// full, inserting overwrites the oldest entry.
type Ring interface {
	Lookup(pageNumber uint8) (page vm.Page, found bool)
	Insert(page vm.Page)
	Entries() []vm.Page
	Len() int
	Capacity() int
	Reset()
}

// NewRing creates a new, empty ring with the given capacity.
func NewRing(capacity int) Ring {
	if capacity <= 0 {
		panic("ring capacity must be positive")
	}

	return &ringImpl{
		slots: make([]vm.Page, capacity),
	}
}

// ringImpl tracks the slot of the oldest entry (head) and the number of valid
// entries.
type ringImpl struct {
	slots  []vm.Page
	head   int
	length int
}

func (r *ringImpl) slot(i int) *vm.Page {
	return &r.slots[(r.head+i)%len(r.slots)]
}

// Lookup scans from the oldest entry to the newest and returns the first match.
func (r *ringImpl) Lookup(pageNumber uint8) (vm.Page, bool) {
	for i := 0; i < r.length; i++ {
		entry := r.slot(i)
		if entry.PageNumber == pageNumber {
			return *entry, true
		}
	}

	return vm.Page{}, false
}

// Insert appends the page, without checking for duplicates.
func (r *ringImpl) Insert(page vm.Page) {
	if r.length < len(r.slots) {
		*r.slot(r.length) = page
		r.length++

		return
	}

	r.slots[r.head] = page
	r.head = (r.head + 1) % len(r.slots)
}

func (r *ringImpl) Entries() []vm.Page {
	entries := make([]vm.Page, 0, r.length)
	for i := 0; i < r.length; i++ {
		entries = append(entries, *r.slot(i))
	}

	return entries
}

func (r *ringImpl) Len() int {
	return r.length
}

func (r *ringImpl) Capacity() int {
	return len(r.slots)
}

func (r *ringImpl) Reset() {
	for i := range r.slots {
		r.slots[i] = vm.Page{}
	}

	r.head = 0
	r.length = 0
}
