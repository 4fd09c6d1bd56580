// Package translator provides the component that translates logical addresses
// into physical ones, loading pages on demand.
package translator

import (
	"fmt"

	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/tlb"
	"github.com/sarchlab/pagesim/memory"
	"github.com/sarchlab/pagesim/sim"
)

// Comp is the translator. It owns the TLB, the page table, the frame
// allocator and the physical memory for the whole run.
type Comp struct {
	*sim.HookableBase

	name string

	tlb            *tlb.Comp
	pageTable      vm.PageTable
	frameAllocator *vm.FrameAllocator
	backingStore   *memory.BackingStore
	storage        *memory.Storage
	idGenerator    sim.IDGenerator
}

// Name returns the name of the translator.
func (c *Comp) Name() string {
	return c.name
}

// TLB returns the translation cache.
func (c *Comp) TLB() *tlb.Comp {
	return c.tlb
}

// PageTable returns the page table.
func (c *Comp) PageTable() vm.PageTable {
	return c.pageTable
}

// FrameAllocator returns the frame allocator.
func (c *Comp) FrameAllocator() *vm.FrameAllocator {
	return c.frameAllocator
}

// Storage returns the physical memory.
func (c *Comp) Storage() *memory.Storage {
	return c.storage
}

// Translate resolves one logical address and reads the byte it points to.
func (c *Comp) Translate(addr vm.LogicalAddress) (Translation, error) {
	t := Translation{
		ID:      c.idGenerator.Generate(),
		Logical: addr,
	}
	t.Page, t.Offset = vm.Decode(addr)

	frame, err := c.resolveFrame(&t)
	if err != nil {
		return t, err
	}

	t.Frame = frame
	t.Physical = vm.Physical(frame, t.Offset)

	value, err := c.storage.ByteAt(uint64(t.Physical))
	if err != nil {
		return t, err
	}

	t.Value = int8(value)

	c.invoke(HookPosTranslated, t)

	return t, nil
}

func (c *Comp) resolveFrame(t *Translation) (uint8, error) {
	frame, found := c.tlb.Lookup(t.Page)
	if found {
		t.Outcome = TLBHit
		c.invoke(HookPosTLBHit, *t)

		return frame, nil
	}

	c.invoke(HookPosTLBMiss, *t)

	frame, found = c.pageTable.Lookup(t.Page)
	if found {
		t.Outcome = PageTableHit
	} else {
		t.Outcome = PageFault
		c.invoke(HookPosPageFault, *t)

		var err error

		frame, err = c.handlePageFault(t.Page)
		if err != nil {
			return 0, err
		}
	}

	c.tlb.Insert(t.Page, frame)

	return frame, nil
}

func (c *Comp) handlePageFault(page uint8) (uint8, error) {
	frame, err := c.frameAllocator.Allocate()
	if err != nil {
		return 0, fmt.Errorf("page fault on page %d: %w", page, err)
	}

	data, err := c.backingStore.ReadPage(page)
	if err != nil {
		return 0, fmt.Errorf("page fault on page %d: %w", page, err)
	}

	err = c.storage.Write(uint64(vm.Physical(frame, 0)), data)
	if err != nil {
		return 0, fmt.Errorf("loading page %d into frame %d: %w",
			page, frame, err)
	}

	err = c.pageTable.Map(page, frame)
	if err != nil {
		return 0, err
	}

	return frame, nil
}

func (c *Comp) invoke(pos *sim.HookPos, t Translation) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   t,
	})
}
