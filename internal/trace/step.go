// Package trace implements the deterministic trace semantics: pairing
// successive measurements into timestamped steps. Grounded on the
// teacher's matching.Engine.ProcessOrder, which carries a single piece of
// state (the order book) forward across calls the same way trace
// semantics carries forward exactly one measurement.
package trace

import (
	"time"

	"github.com/fenwicklabs/dtwin/internal/measurement"
	"github.com/fenwicklabs/dtwin/internal/sli"
)

// Step is (last, Δt, current): produced only when a second measurement
// arrives after a first. The first measurement never produces a step.
type Step struct {
	Last    *measurement.Measurement
	Dt      time.Duration
	Current *measurement.Measurement
}

// DurationFunc computes Δt between two successive measurements. The
// default, DefaultDuration, looks for a recognized time column and falls
// back to treating consecutive indices as one-second ticks.
type DurationFunc func(last, current *measurement.Measurement) time.Duration

// Config is the trace semantics configuration: the previous measurement,
// or nil before the first.
type Config struct {
	Last *measurement.Measurement
}

// New builds the deterministic (initial, actions, execute) contract for
// trace semantics. durationFn must not be nil; pass DefaultDuration for
// the spec's default behavior.
//
// Per spec §9's open question, Actions returns ok=false whenever current
// is nil, uniformly with internal/membership — there is no special-cased
// "present but meaningless" action here.
func New(durationFn DurationFunc) sli.Deterministic[*measurement.Measurement, *Step, struct{}, Config] {
	return sli.Deterministic[*measurement.Measurement, *Step, struct{}, Config]{
		Initial: func() (Config, bool) {
			return Config{}, true
		},
		Actions: func(current *measurement.Measurement, _ Config) (struct{}, bool) {
			if current == nil {
				return struct{}{}, false
			}
			return struct{}{}, true
		},
		Execute: func(_ struct{}, current *measurement.Measurement, config Config) (*Step, Config, bool) {
			if config.Last == nil {
				// First measurement: no step, configuration now remembers current.
				return nil, Config{Last: current}, true
			}
			dt := durationFn(config.Last, current)
			step := &Step{Last: config.Last, Dt: dt, Current: current}
			return step, Config{Last: current}, true
		},
	}
}

// DefaultDuration computes Δt from a recognized time column when present
// on both measurements, falling back to (current.Index - last.Index)
// seconds otherwise.
func DefaultDuration(timeColumn string) DurationFunc {
	return func(last, current *measurement.Measurement) time.Duration {
		if timeColumn != "" {
			lv := last.Get(timeColumn)
			cv := current.Get(timeColumn)
			if lf, ok := lv.Float64(); ok {
				if cf, ok := cv.Float64(); ok {
					delta := cf - lf
					if delta < 0 {
						delta = 0
					}
					return time.Duration(delta * float64(time.Second))
				}
			}
		}
		delta := current.Index() - last.Index()
		if delta < 0 {
			delta = 0
		}
		return time.Duration(delta) * time.Second
	}
}
