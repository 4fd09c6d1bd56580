package translator

import (
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/tlb"
	"github.com/sarchlab/pagesim/memory"
	"github.com/sarchlab/pagesim/sim"
)

// A Builder can build translators.
type Builder struct {
	numTLBEntries int
	numFrames     int
	backingStore  *memory.BackingStore
	pageTable     vm.PageTable
	idGenerator   sim.IDGenerator
}

// MakeBuilder creates a new builder with a 16-entry TLB and 256 frames.
func MakeBuilder() Builder {
	return Builder{
		numTLBEntries: 16,
		numFrames:     vm.MaxFrames,
	}
}

// WithNumTLBEntries sets the capacity of the TLB.
func (b Builder) WithNumTLBEntries(n int) Builder {
	b.numTLBEntries = n
	return b
}

// WithNumFrames sets the number of frames in the physical memory.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithBackingStore sets the backing store that pages are loaded from.
func (b Builder) WithBackingStore(bs *memory.BackingStore) Builder {
	b.backingStore = bs
	return b
}

// WithPageTable sets the page table to use. By default, a new empty page table
// is created.
func (b Builder) WithPageTable(pt vm.PageTable) Builder {
	b.pageTable = pt
	return b
}

// WithIDGenerator sets the generator of translation IDs. By default, the
// process-wide generator is used.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGenerator = g
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.backingStore == nil {
		panic("a backing store is required")
	}

	if b.backingStore.PageSize() != vm.PageSize {
		panic("the backing store page size must match the frame size")
	}
}

// Build creates a translator with all the pages unmapped.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()
	sim.NameMustBeValid(name)

	c := &Comp{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		backingStore: b.backingStore,
	}

	c.tlb = tlb.MakeBuilder().
		WithNumEntries(b.numTLBEntries).
		Build(sim.BuildName(name, "TLB"))
	c.frameAllocator = vm.NewFrameAllocator(b.numFrames)
	c.storage = memory.NewStorage(
		uint64(b.numFrames)*vm.PageSize, vm.PageSize)

	c.pageTable = b.pageTable
	if c.pageTable == nil {
		c.pageTable = vm.NewPageTable()
	}

	c.idGenerator = b.idGenerator
	if c.idGenerator == nil {
		c.idGenerator = sim.GetIDGenerator()
	}

	return c
}
