// Package config holds the recognized run options from spec.md §6.
//
// Grounded on internal/risk.Config/risk.DefaultConfig and the inline
// Config/DefaultConfig in the teacher's cmd/server/main.go — a plain
// struct plus a defaults constructor, no external config library.
package config

import "github.com/fenwicklabs/dtwin/internal/tracesource"

// Config holds every recognized run option.
type Config struct {
	// TracePath is the delimited trace file to load.
	TracePath string
	// AutomatonPath is the automaton definition file (see cmd/runner).
	AutomatonPath string

	// Capacity is the ring buffer capacity, >= 1.
	Capacity int
	// PeriodMs paces the producer; 0 means unpaced.
	PeriodMs int
	// Mode selects FIXED_PERIOD or REAL_DELTA_T pacing.
	Mode tracesource.EmulatorMode
	// Strict selects strict membership mode (default false).
	Strict bool

	// EventLogPath, if non-empty, appends every verdict to a durable log.
	EventLogPath string
	// BatchOutputPath, if non-empty, writes batched tracking output here.
	BatchOutputPath string
}

// DefaultRealtimeConfig returns the defaults for a real-time demo run:
// a small buffer that favors dropping stale data over unbounded memory.
func DefaultRealtimeConfig() Config {
	return Config{
		Capacity: 15,
		PeriodMs: 40,
		Mode:     tracesource.FixedPeriod,
		Strict:   false,
	}
}

// DefaultBatchConfig returns the defaults for a batch verification run: a
// larger 100-slot buffer, unpaced. Traces longer than the buffer can
// still drop measurements if the consumer falls behind.
func DefaultBatchConfig() Config {
	return Config{
		Capacity: 100,
		PeriodMs: 0,
		Mode:     tracesource.FixedPeriod,
		Strict:   false,
	}
}
