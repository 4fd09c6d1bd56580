// Package trace provides hooks that record the translations performed by a
// translator.
package trace

import (
	"log"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/mem/vm/translator"
	"github.com/sarchlab/pagesim/sim"
)

// TranslationsTable is the table that the DB tracer writes translations to.
const TranslationsTable = "translations"

// translationEntry represents a translation in the database
type translationEntry struct {
	ID       string
	Location string
	Logical  uint16
	Page     uint8
	Offset   uint8
	Frame    uint8
	Physical uint32
	Value    int8
	Outcome  string
}

// A tracer is a hook that can record the translations into a log.
type tracer struct {
	logger *log.Logger
}

// NewTracer creates a hook that writes one line per page fault and one line
// per completed translation.
func NewTracer(logger *log.Logger) sim.Hook {
	t := new(tracer)
	t.logger = logger

	return t
}

func (t *tracer) Func(ctx sim.HookCtx) {
	tr, ok := ctx.Item.(translator.Translation)
	if !ok {
		return
	}

	switch ctx.Pos {
	case translator.HookPosPageFault:
		t.logger.Printf("fault, %s, %d\n", tr.ID, tr.Page)
	case translator.HookPosTranslated:
		t.logger.Printf("translate, %s, %d, %d, %d, %d, %d, %d, %s\n",
			tr.ID, tr.Logical, tr.Page, tr.Offset,
			tr.Frame, tr.Physical, tr.Value, tr.Outcome)
	}
}

// A dbTracer is a hook that can record the translations into a database
// using the data recorder.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
}

// NewDBTracer creates a hook that inserts one row per completed translation.
func NewDBTracer(dataRecorder datarecording.DataRecorder) sim.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
	}

	t.dataRecorder.CreateTable(TranslationsTable, translationEntry{})

	return t
}

func (t *dbTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != translator.HookPosTranslated {
		return
	}

	tr := ctx.Item.(translator.Translation)

	location := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		location = named.Name()
	}

	entry := translationEntry{
		ID:       tr.ID,
		Location: location,
		Logical:  uint16(tr.Logical),
		Page:     tr.Page,
		Offset:   tr.Offset,
		Frame:    tr.Frame,
		Physical: uint32(tr.Physical),
		Value:    tr.Value,
		Outcome:  tr.Outcome.String(),
	}

	t.dataRecorder.InsertData(TranslationsTable, entry)
}
