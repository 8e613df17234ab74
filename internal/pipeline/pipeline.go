// Package pipeline wires the trace source, ring buffer, sequencer, and
// relaxed membership semantics into the end-to-end run cmd/runner
// exposes on the command line. Factored out of cmd/runner so the wiring
// itself is testable without shelling out to a binary.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fenwicklabs/dtwin/internal/automaton"
	"github.com/fenwicklabs/dtwin/internal/config"
	"github.com/fenwicklabs/dtwin/internal/eventlog"
	"github.com/fenwicklabs/dtwin/internal/measurement"
	"github.com/fenwicklabs/dtwin/internal/membership"
	"github.com/fenwicklabs/dtwin/internal/report"
	"github.com/fenwicklabs/dtwin/internal/ringbuffer"
	"github.com/fenwicklabs/dtwin/internal/sli"
	"github.com/fenwicklabs/dtwin/internal/trace"
	"github.com/fenwicklabs/dtwin/internal/tracesource"
	"github.com/fenwicklabs/dtwin/internal/viewer"
)

// Options configures a single pipeline run.
type Options struct {
	// Cancel, if non-nil, closes the ring buffer as soon as it is
	// cancelled, unblocking the consumer early the same way an external
	// SIGINT/SIGTERM does. Per spec.md §5, the consumer then observes
	// end-of-stream rather than an explicit interruption signal.
	Cancel context.Context

	TracePath     string
	AutomatonPath string

	Capacity   int
	PeriodMs   int
	RealDeltaT bool
	Strict     bool

	EventLogPath    string
	BatchOutputPath string
	Quiet           bool
}

// FromConfig builds the Options a config.Config describes, layering cancel
// and quiet on top since those are call-site concerns rather than
// recognized config fields.
func FromConfig(cfg config.Config, cancel context.Context, quiet bool) Options {
	return Options{
		Cancel:          cancel,
		TracePath:       cfg.TracePath,
		AutomatonPath:   cfg.AutomatonPath,
		Capacity:        cfg.Capacity,
		PeriodMs:        cfg.PeriodMs,
		RealDeltaT:      cfg.Mode == tracesource.RealDeltaT,
		Strict:          cfg.Strict,
		EventLogPath:    cfg.EventLogPath,
		BatchOutputPath: cfg.BatchOutputPath,
		Quiet:           quiet,
	}
}

// Run loads the trace and automaton, wires the ring buffer, sequencer,
// and relaxed membership semantics, drives the run to completion, and
// returns the final report. The producer runs on its own goroutine; Run
// blocks until the sequencer observes end-of-stream or a halt.
func Run(opts Options) (*report.Report, error) {
	spec, err := automaton.LoadFile(opts.AutomatonPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading automaton: %w", err)
	}

	src, err := tracesource.Load(opts.TracePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading trace: %w", err)
	}

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = 15
	}
	buf := ringbuffer.New[*measurement.Measurement](capacity)

	mode := tracesource.FixedPeriod
	if opts.RealDeltaT {
		mode = tracesource.RealDeltaT
	}

	durationFn := trace.DefaultDuration(src.TimeColumn)
	semantics := membership.New(durationFn, spec.Spec(), opts.Strict)

	// Wrap Execute to capture the post-step configuration alongside the
	// verdict it produced, for the event log's SurvivingConfigs: OnOutput
	// alone only exposes the verdict, not the configuration it left
	// behind.
	var lastConfig membership.Config[int64]
	innerExecute := semantics.Execute
	semantics.Execute = func(action struct{}, input *measurement.Measurement, stepConfig membership.Config[int64]) (membership.Verdict, membership.Config[int64], bool) {
		verdict, next, ok := innerExecute(action, input, stepConfig)
		lastConfig = next
		return verdict, next, ok
	}

	seq := sli.New(buf, semantics, true)

	if mode == tracesource.RealDeltaT {
		seq.SetPacing(tracesource.PaceFunc(src.TimeColumn))
	}

	rpt := report.New(true)
	seq.OnOutput(rpt.RecordVerdict)

	if !opts.Quiet {
		seq.OnOutput(viewer.ConsoleOutput[membership.Verdict](logWriter{}))
	}

	var closers []func() error

	if opts.BatchOutputPath != "" {
		sink, err := viewer.NewBatchSink(opts.BatchOutputPath, 1000, 10*time.Millisecond)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening batch output: %w", err)
		}
		closers = append(closers, sink.Close)
		seq.OnOutput(func(v membership.Verdict) {
			sink.QueueLine(v.String())
		})
	}

	if opts.EventLogPath != "" {
		evLog, err := eventlog.Open(opts.EventLogPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening event log: %w", err)
		}
		closers = append(closers, evLog.Close)

		var lastIndex int
		seq.OnInput(func(m *measurement.Measurement, _ membership.Config[int64]) {
			lastIndex = m.Index()
		})
		seq.OnOutput(func(v membership.Verdict) {
			eventType := eventlog.EventTypeOK
			if v == membership.FAIL {
				eventType = eventlog.EventTypeFail
			}
			surviving := make([]string, len(lastConfig.Spec))
			for i, id := range lastConfig.Spec {
				surviving[i] = spec.StateName(id)
			}
			if _, err := evLog.Append(&eventlog.VerdictEvent{
				Event:            eventlog.Event{Type: eventType, Timestamp: time.Now().UnixNano()},
				MeasurementIndex: lastIndex,
				SurvivingConfigs: surviving,
			}); err != nil {
				log.Printf("pipeline: event log append failed: %v", err)
			}
		})
	}

	if opts.Cancel != nil {
		go func() {
			<-opts.Cancel.Done()
			buf.Close()
		}()
	}

	go src.Run(buf, tracesource.Config{Mode: mode, PeriodMs: opts.PeriodMs})

	runErr := seq.Run()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("pipeline: close failed: %v", err)
		}
	}

	rpt.SetReadingsProduced(len(src.Measurements))
	rpt.SetBufferStats(buf.Stats())
	rpt.SetSequencerCounts(seq.InputsSeen(), seq.OutputsSent())

	return rpt, runErr
}

// logWriter adapts the standard logger to an io.Writer so console output
// goes through the same sink cmd/runner uses for diagnostics.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Print(string(p))
	return len(p), nil
}
