package translator

import (
	"fmt"

	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/sim"
)

// Outcome tells how a translation was resolved.
type Outcome int

// The ways a translation can be resolved.
const (
	TLBHit Outcome = iota
	PageTableHit
	PageFault
)

func (o Outcome) String() string {
	switch o {
	case TLBHit:
		return "tlb_hit"
	case PageTableHit:
		return "page_table_hit"
	case PageFault:
		return "page_fault"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// A Translation is the result of translating one logical address.
type Translation struct {
	ID       string
	Logical  vm.LogicalAddress
	Page     uint8
	Offset   uint8
	Frame    uint8
	Physical vm.PhysicalAddress
	Value    int8
	Outcome  Outcome
}

// Hook positions of the translator. The item of each HookCtx is a Translation.
// Fields that are not known yet at a position are left zero.
var (
	// HookPosTLBHit is triggered when the TLB holds the page.
	HookPosTLBHit = &sim.HookPos{Name: "TLBHit"}

	// HookPosTLBMiss is triggered when the TLB does not hold the page.
	HookPosTLBMiss = &sim.HookPos{Name: "TLBMiss"}

	// HookPosPageFault is triggered when the page has no frame yet, before a
	// frame is allocated.
	HookPosPageFault = &sim.HookPos{Name: "PageFault"}

	// HookPosTranslated is triggered once per address with the complete
	// translation.
	HookPosTranslated = &sim.HookPos{Name: "Translated"}
)
