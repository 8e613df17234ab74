// Package membership implements relaxed membership: a deterministic
// semantics combinator that wraps a trace semantics and a nondeterministic
// spec semantics to emit OK/FAIL verdicts while evolving the set of
// surviving spec configurations.
//
// Grounded on matching.Engine.matchOrder's "try every resting order, keep
// what still works" fan-out-then-merge shape (try every surviving spec
// configuration, union the successors) and on risk.CheckResult's
// Passed/Reason verdict shape.
package membership

import (
	"github.com/fenwicklabs/dtwin/internal/measurement"
	"github.com/fenwicklabs/dtwin/internal/sli"
	"github.com/fenwicklabs/dtwin/internal/trace"
)

// Verdict is the boolean outcome of a membership step. It is a value
// delivered to a listener, never an error.
type Verdict int

const (
	OK Verdict = iota
	FAIL
)

func (v Verdict) String() string {
	if v == OK {
		return "OK"
	}
	return "FAIL"
}

// Config is the relaxed membership configuration: the previous
// measurement (nil before the first) and the set of surviving spec
// configurations.
type Config[C2 comparable] struct {
	Last *measurement.Measurement
	Spec []C2
}

// New builds the deterministic (initial, actions, execute) contract for
// relaxed (or, if strict is true, strict) membership, composing a trace
// semantics parametrized by durationFn with a nondeterministic spec
// semantics.
//
// Relaxed mode (strict=false) is the spec's chosen default: a FAIL
// preserves the prior surviving configurations so the stream can
// recover. Strict mode freezes the dead set on the first FAIL, poisoning
// every subsequent verdict.
func New[O2, A2 any, C2 comparable](
	durationFn trace.DurationFunc,
	spec sli.Nondeterministic[*trace.Step, O2, A2, C2],
	strict bool,
) sli.Deterministic[*measurement.Measurement, Verdict, struct{}, Config[C2]] {
	traceSem := trace.New(durationFn)

	return sli.Deterministic[*measurement.Measurement, Verdict, struct{}, Config[C2]]{
		Initial: func() (Config[C2], bool) {
			specConfigs := spec.Initial()
			if len(specConfigs) == 0 {
				// No surviving spec configuration: the system cannot start.
				return Config[C2]{}, false
			}
			return Config[C2]{Spec: specConfigs}, true
		},

		Actions: func(input *measurement.Measurement, _ Config[C2]) (struct{}, bool) {
			if input == nil {
				return struct{}{}, false
			}
			return struct{}{}, true
		},

		Execute: func(_ struct{}, input *measurement.Measurement, config Config[C2]) (Verdict, Config[C2], bool) {
			traceCfg := trace.Config{Last: config.Last}
			maybeStep, nextTraceCfg, ok := traceSem.Execute(struct{}{}, input, traceCfg)
			if !ok {
				return OK, config, false
			}

			if maybeStep == nil {
				// Bootstrapping: first measurement trivially conforms.
				return OK, Config[C2]{Last: nextTraceCfg.Last, Spec: config.Spec}, true
			}

			specNext := unionSuccessors(spec, maybeStep, config.Spec)
			if len(specNext) == 0 {
				var carried []C2
				if !strict {
					carried = config.Spec
				}
				return FAIL, Config[C2]{Last: nextTraceCfg.Last, Spec: carried}, true
			}
			return OK, Config[C2]{Last: nextTraceCfg.Last, Spec: specNext}, true
		},
	}
}

// unionSuccessors computes ⋃ { rhs | c ∈ configs, a ∈ spec.Actions(step,c),
// (out, rhs) ∈ spec.Execute(a, step, c) }, deduplicated.
func unionSuccessors[O2, A2 any, C2 comparable](spec sli.Nondeterministic[*trace.Step, O2, A2, C2], step *trace.Step, configs []C2) []C2 {
	seen := make(map[C2]bool)
	var next []C2
	for _, c := range configs {
		for _, action := range spec.Actions(step, c) {
			for _, result := range spec.Execute(action, step, c) {
				if !seen[result.Config] {
					seen[result.Config] = true
					next = append(next, result.Config)
				}
			}
		}
	}
	return next
}
