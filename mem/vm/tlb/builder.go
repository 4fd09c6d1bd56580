package tlb

import (
	"github.com/sarchlab/pagesim/mem/vm/tlb/internal"
	"github.com/sarchlab/pagesim/sim"
)

// A Builder can build TLBs
type Builder struct {
	numEntries int
}

// MakeBuilder returns a Builder
func MakeBuilder() Builder {
	return Builder{
		numEntries: 16,
	}
}

// WithNumEntries sets the number of entries the TLB can hold.
func (b Builder) WithNumEntries(n int) Builder {
	b.numEntries = n
	return b
}

// Build creates a new, empty TLB.
func (b Builder) Build(name string) *Comp {
	if b.numEntries <= 0 {
		panic("the TLB must hold at least one entry")
	}

	sim.NameMustBeValid(name)

	c := &Comp{
		name: name,
		ring: internal.NewRing(b.numEntries),
	}

	return c
}
