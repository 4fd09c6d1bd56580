package simulation

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/mem/trace"
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/translator"
	"github.com/sarchlab/pagesim/memory"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/stats"
)

// Builder can be used to build a simulation.
type Builder struct {
	backingStore  *memory.BackingStore
	numTLBEntries int
	numFrames     int
	strict        bool
	recordOn      bool
	recordPath    string
	traceWriter   io.Writer
	monitorOn     bool
	monitorPort   int
	openBrowser   bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		numTLBEntries: 16,
		numFrames:     vm.MaxFrames,
	}
}

// WithBackingStore sets the backing store that pages are loaded from.
func (b Builder) WithBackingStore(bs *memory.BackingStore) Builder {
	b.backingStore = bs
	return b
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

// WithStrictParsing makes malformed address lines an error instead of
// address 0.
func (b Builder) WithStrictParsing() Builder {
	b.strict = true
	return b
}

// WithRecording records every translation and the summary into an SQLite
// database at path + ".sqlite3". An empty path generates a unique name. A
// path starting with clickhouse:// is a ClickHouse data source name instead.
func (b Builder) WithRecording(path string) Builder {
	b.recordOn = true
	b.recordPath = path
	return b
}

// WithTraceWriter writes one trace line per fault and per translation to w.
func (b Builder) WithTraceWriter(w io.Writer) Builder {
	b.traceWriter = w
	return b
}

// WithMonitoring starts an HTTP monitoring server. Port 0 picks a random port.
func (b Builder) WithMonitoring(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page in a browser once the server starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.backingStore == nil {
		panic("a backing store is required")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:     xid.New().String(),
		strict: b.strict,
	}

	s.translator = translator.MakeBuilder().
		WithBackingStore(b.backingStore).
		WithNumTLBEntries(b.numTLBEntries).
		WithNumFrames(b.numFrames).
		Build("Translator")

	s.collector = stats.NewCollector()
	s.translator.AcceptHook(s.collector)

	if b.traceWriter != nil {
		logger := log.New(b.traceWriter, "", 0)
		s.translator.AcceptHook(trace.NewTracer(logger))
	}

	if b.recordOn {
		err := b.buildRecorder(s)
		if err != nil {
			return nil, err
		}
	}

	if b.monitorOn {
		err := b.buildMonitor(s)
		if err != nil {
			s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildRecorder(s *Simulation) error {
	path := b.recordPath
	if path == "" {
		path = "pagesim_" + s.id
	}

	var (
		recorder datarecording.DataRecorder
		err      error
	)

	if strings.HasPrefix(path, datarecording.ClickHouseScheme) {
		recorder, err = datarecording.NewClickHouse(path)
	} else {
		recorder, err = datarecording.New(path)
	}

	if err != nil {
		return fmt.Errorf("creating data recorder: %w", err)
	}

	s.dataRecorder = recorder
	s.dataRecorder.CreateTable(summaryTable, summaryEntry{})
	s.translator.AcceptHook(trace.NewDBTracer(s.dataRecorder))

	return nil
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor().
		WithPortNumber(b.monitorPort).
		WithLocker(&s.lock)
	s.monitor.RegisterTranslator(s.translator)
	s.monitor.RegisterCollector(s.collector)

	url, err := s.monitor.StartServer()
	if err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}

	if b.openBrowser {
		s.monitor.OpenBrowser(url)
	}

	return nil
}
