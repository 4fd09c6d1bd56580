// Package stats accumulates the hit and fault counts of a translation run.
package stats

import (
	"math"
	"sync"

	"github.com/sarchlab/pagesim/mem/vm/translator"
	"github.com/sarchlab/pagesim/sim"
)

// Summary is a snapshot of the statistics of a run.
type Summary struct {
	TotalAddresses uint64  `json:"total_addresses"`
	PageFaults     uint64  `json:"page_faults"`
	PageFaultRate  float64 `json:"page_fault_rate"`
	TLBHits        uint64  `json:"tlb_hits"`
	TLBHitRate     float64 `json:"tlb_hit_rate"`
}

// A Collector is a hook that counts the translations reported by a
// translator. Rates are NaN until at least one address is counted.
type Collector struct {
	lock           sync.Mutex
	totalAddresses uint64
	tlbHits        uint64
	pageFaults     uint64
}

// NewCollector creates a Collector with all counts at zero.
func NewCollector() *Collector {
	return &Collector{}
}

// Func counts the completed translations.
func (c *Collector) Func(ctx sim.HookCtx) {
	if ctx.Pos != translator.HookPosTranslated {
		return
	}

	c.Record(ctx.Item.(translator.Translation).Outcome)
}

// Record counts one translation with the given outcome.
func (c *Collector) Record(outcome translator.Outcome) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.totalAddresses++

	switch outcome {
	case translator.TLBHit:
		c.tlbHits++
	case translator.PageFault:
		c.pageFaults++
	}
}

// Summary returns the current counts and rates.
func (c *Collector) Summary() Summary {
	c.lock.Lock()
	defer c.lock.Unlock()

	return Summary{
		TotalAddresses: c.totalAddresses,
		PageFaults:     c.pageFaults,
		PageFaultRate:  rate(c.pageFaults, c.totalAddresses),
		TLBHits:        c.tlbHits,
		TLBHitRate:     rate(c.tlbHits, c.totalAddresses),
	}
}

func rate(count, total uint64) float64 {
	if total == 0 {
		return math.NaN()
	}

	return float64(count) / float64(total)
}
