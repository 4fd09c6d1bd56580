// Package monitoring turns a running simulation into an HTTP server that can
// be inspected while it runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/pagesim/mem/vm/translator"
	"github.com/sarchlab/pagesim/sim"
	"github.com/sarchlab/pagesim/stats"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// Monitor can turn a simulation into a server and allows external monitoring
// of the simulation.
type Monitor struct {
	translator *translator.Comp
	collector  *stats.Collector
	components []sim.Named
	portNumber int
	locker     sync.Locker
	listener   net.Listener

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		locker: noLock{},
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLocker sets the lock that must be held while reading the state of the
// registered components.
func (m *Monitor) WithLocker(l sync.Locker) *Monitor {
	m.locker = l
	return m
}

// RegisterTranslator registers the translator whose TLB and page table are
// exposed.
func (m *Monitor) RegisterTranslator(t *translator.Comp) {
	m.translator = t
	m.RegisterComponent(t)
	m.RegisterComponent(t.TLB())
}

// RegisterCollector registers the statistics to expose.
func (m *Monitor) RegisterCollector(c *stats.Collector) {
	m.collector = c
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Named) {
	m.components = append(m.components, c)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the router that serves the monitoring API.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", m.reportStats)
	r.HandleFunc("/api/pagetable", m.listPageTable)
	r.HandleFunc("/api/tlb", m.listTLB)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":" + strconv.Itoa(m.portNumber)

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Panic(err)
		}
	}()

	return url, nil
}

// StopServer stops accepting connections.
func (m *Monitor) StopServer() error {
	if m.listener == nil {
		return nil
	}

	return m.listener.Close()
}

// OpenBrowser opens url in the default browser. Failing to open a browser is
// reported but is not fatal.
func (m *Monitor) OpenBrowser(url string) {
	err := browser.OpenURL(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
	}
}

type statsRsp struct {
	TotalAddresses uint64   `json:"total_addresses"`
	PageFaults     uint64   `json:"page_faults"`
	PageFaultRate  *float64 `json:"page_fault_rate"`
	TLBHits        uint64   `json:"tlb_hits"`
	TLBHitRate     *float64 `json:"tlb_hit_rate"`
}

// nullableRate maps NaN to null, which JSON cannot represent otherwise.
func nullableRate(r float64) *float64 {
	if math.IsNaN(r) {
		return nil
	}

	return &r
}

func (m *Monitor) reportStats(w http.ResponseWriter, _ *http.Request) {
	if m.collector == nil {
		http.Error(w, "no statistics registered", http.StatusNotFound)
		return
	}

	s := m.collector.Summary()
	m.writeJSON(w, statsRsp{
		TotalAddresses: s.TotalAddresses,
		PageFaults:     s.PageFaults,
		PageFaultRate:  nullableRate(s.PageFaultRate),
		TLBHits:        s.TLBHits,
		TLBHitRate:     nullableRate(s.TLBHitRate),
	})
}

type mappingRsp struct {
	Page  uint8 `json:"page"`
	Frame uint8 `json:"frame"`
}

func (m *Monitor) listPageTable(w http.ResponseWriter, _ *http.Request) {
	if m.translator == nil {
		http.Error(w, "no translator registered", http.StatusNotFound)
		return
	}

	m.locker.Lock()
	pages := m.translator.PageTable().Pages()
	m.locker.Unlock()

	rsp := make([]mappingRsp, 0, len(pages))
	for _, p := range pages {
		rsp = append(rsp, mappingRsp{Page: p.PageNumber, Frame: p.FrameNumber})
	}

	m.writeJSON(w, rsp)
}

type tlbRsp struct {
	Capacity int          `json:"capacity"`
	Lookups  uint64       `json:"lookups"`
	Hits     uint64       `json:"hits"`
	Entries  []mappingRsp `json:"entries"`
}

func (m *Monitor) listTLB(w http.ResponseWriter, _ *http.Request) {
	if m.translator == nil {
		http.Error(w, "no translator registered", http.StatusNotFound)
		return
	}

	m.locker.Lock()
	tlb := m.translator.TLB()
	rsp := tlbRsp{
		Capacity: tlb.Capacity(),
		Lookups:  tlb.NumLookups(),
		Hits:     tlb.NumHits(),
		Entries:  make([]mappingRsp, 0, tlb.Len()),
	}
	for _, e := range tlb.Entries() {
		rsp.Entries = append(rsp.Entries,
			mappingRsp{Page: e.PageNumber, Frame: e.FrameNumber})
	}
	m.locker.Unlock()

	m.writeJSON(w, rsp)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	m.writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	m.locker.Lock()
	defer m.locker.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
