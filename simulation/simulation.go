// Package simulation runs a list of logical addresses through a translator
// and reports the results.
package simulation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/translator"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/stats"
)

const summaryTable = "run_summary"

type summaryEntry struct {
	RunID          string
	TotalAddresses uint64
	PageFaults     uint64
	PageFaultRate  float64
	TLBHits        uint64
	TLBHitRate     float64
}

// A Simulation owns one translator and everything that observes it.
type Simulation struct {
	id     string
	strict bool

	// lock guards the translator against the monitoring server.
	lock sync.Mutex

	translator   *translator.Comp
	collector    *stats.Collector
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	terminated   bool
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Translator returns the translator of the simulation.
func (s *Simulation) Translator() *translator.Comp {
	return s.translator
}

// Collector returns the statistics collector of the simulation.
func (s *Simulation) Collector() *stats.Collector {
	return s.collector
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Run translates every line of in and writes one line per address to out,
// followed by the summary. It stops at the first error.
func (s *Simulation) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	var progress *monitoring.ProgressBar
	if s.monitor != nil {
		progress = s.monitor.CreateProgressBar("Translations", 0)
		defer s.monitor.CompleteProgressBar(progress)
	}

	scanner := bufio.NewScanner(in)
	lineNumber := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		lineNumber++
		line := scanner.Text()

		if s.strict && isBlank(line) {
			continue
		}

		addr, err := ParseAddress(line, s.strict)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}

		t, err := s.translate(vm.LogicalAddress(uint16(addr)))
		if err != nil {
			return fmt.Errorf("line %d: translating %d: %w",
				lineNumber, addr, err)
		}

		_, err = fmt.Fprintf(w,
			"Virtual address: %d physical address: %d Value: %d\n",
			addr, t.Physical, t.Value)
		if err != nil {
			return err
		}

		if progress != nil {
			progress.IncrementFinished(1)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return WriteSummary(w, s.collector.Summary())
}

func (s *Simulation) translate(
	addr vm.LogicalAddress,
) (translator.Translation, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.translator.Translate(addr)
}

func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		if !isSpace(line[i]) {
			return false
		}
	}

	return true
}

// WriteSummary writes the end-of-run statistics.
func WriteSummary(w io.Writer, summary stats.Summary) error {
	_, err := fmt.Fprintf(w,
		"Number of Addresses Translated = %d\n"+
			"Page Faults = %d\n"+
			"Page Fault Rate = %.3f\n"+
			"TLB Hits = %d\n"+
			"TLB Hit Rate = %.3f\n",
		summary.TotalAddresses,
		summary.PageFaults,
		summary.PageFaultRate,
		summary.TLBHits,
		summary.TLBHitRate,
	)

	return err
}

// Terminate records the summary and closes the data recorder. It is safe to
// call more than once.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true

	if s.dataRecorder == nil {
		return nil
	}

	summary := s.collector.Summary()
	s.dataRecorder.InsertData(summaryTable, summaryEntry{
		RunID:          s.id,
		TotalAddresses: summary.TotalAddresses,
		PageFaults:     summary.PageFaults,
		PageFaultRate:  summary.PageFaultRate,
		TLBHits:        summary.TLBHits,
		TLBHitRate:     summary.TLBHitRate,
	})

	return s.dataRecorder.Close()
}
