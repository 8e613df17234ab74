// Package report aggregates end-of-run counters into the final summary
// described in spec.md §6: readings produced, buffer occupancy stats,
// sequencer throughput, and, for verification runs, the OK/FAIL tally
// and a CONFORMS verdict.
//
// Grounded on internal/settlement/clearing.go's ClearingHouse: a
// mutex-guarded aggregate that accumulates events as they happen and
// produces a summary on demand (there, netted positions; here, run
// counters).
package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fenwicklabs/dtwin/internal/membership"
	"github.com/fenwicklabs/dtwin/internal/ringbuffer"
)

// Report accumulates run counters under a single mutex and renders the
// final summary.
type Report struct {
	mu sync.Mutex

	readingsProduced int
	bufferStats      ringbuffer.Stats
	sequencerInputs  uint64
	sequencerOutputs uint64

	verifying bool
	totalSteps int
	ok         int
	fail       int
}

// New creates an empty report. verifying controls whether the rendered
// summary includes the {totalSteps, ok, fail, CONFORMS} verification
// section.
func New(verifying bool) *Report {
	return &Report{verifying: verifying}
}

// SetReadingsProduced records how many measurements the trace source
// emitted.
func (r *Report) SetReadingsProduced(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readingsProduced = n
}

// SetBufferStats snapshots the ring buffer's final counters.
func (r *Report) SetBufferStats(s ringbuffer.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bufferStats = s
}

// SetSequencerCounts records the sequencer's final input/output counts.
func (r *Report) SetSequencerCounts(inputs, outputs uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequencerInputs = inputs
	r.sequencerOutputs = outputs
}

// RecordVerdict tallies a single membership verdict. Intended to be
// wired as an output listener on a membership-based sequencer.
func (r *Report) RecordVerdict(v membership.Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalSteps++
	if v == membership.OK {
		r.ok++
	} else {
		r.fail++
	}
}

// Conforms reports whether every recorded verdict so far was OK.
func (r *Report) Conforms() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fail == 0
}

// String renders the final report.
func (r *Report) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "readings produced : %d\n", r.readingsProduced)
	fmt.Fprintf(&b, "capacity          : %d\n", r.bufferStats.Capacity)
	fmt.Fprintf(&b, "peak size         : %d\n", r.bufferStats.PeakSize)
	fmt.Fprintf(&b, "total written     : %d\n", r.bufferStats.TotalWritten)
	fmt.Fprintf(&b, "total read        : %d\n", r.bufferStats.TotalRead)
	fmt.Fprintf(&b, "total dropped     : %d\n", r.bufferStats.TotalDropped)
	fmt.Fprintf(&b, "sequencer inputs  : %d\n", r.sequencerInputs)
	fmt.Fprintf(&b, "sequencer outputs : %d\n", r.sequencerOutputs)
	if r.verifying {
		fmt.Fprintf(&b, "total steps       : %d\n", r.totalSteps)
		fmt.Fprintf(&b, "ok                : %d\n", r.ok)
		fmt.Fprintf(&b, "fail              : %d\n", r.fail)
		verdict := "CONFORMS"
		if r.fail > 0 {
			verdict = "NONCONFORMANT"
		}
		fmt.Fprintf(&b, "verdict           : %s\n", verdict)
	}
	return b.String()
}
