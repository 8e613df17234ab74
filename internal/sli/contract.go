// Package sli implements the deterministic I/O semantics contract
// ("Semantics-Level Interface") and the generic sequencer that drives any
// instance of it to completion by consuming a ring buffer.
//
// A semantics is a generic, effect-free step function parametric in input
// I, output O, action A and configuration C. Implementations must be pure:
// identical (input, config) always yields an identical result, with no
// hidden state and no I/O. Two flavors are defined:
//
//   - Deterministic: actions/execute each return at most one result,
//     modeled here with Go's (value, ok bool) idiom standing in for the
//     spec's "present | absent" option type.
//   - Nondeterministic: actions/execute each return a set (slice) of
//     results, used only by the underlying spec-semantics provider that
//     Relaxed Membership composes with a trace semantics.
//
// Per spec §9's open question, the contract is uniform: actions must
// return !ok whenever the input itself is absent/zero-meaningless for a
// given semantics — callers are never asked to special-case a "present
// but meaningless" action the way the original TraceSemanticsCip did.
package sli

// Deterministic is the (initial, actions, execute) contract over
// input I, output O, action A and configuration C. All three fields are
// required; Sequencer calls Initial once per run, then Actions and
// Execute, in that order, at most once per input element.
type Deterministic[I, O, A, C any] struct {
	// Initial returns the configuration before any input is processed.
	// ok=false halts the sequencer before it ever reads from the buffer.
	Initial func() (C, bool)

	// Actions selects the single action to perform for input under config.
	// ok=false halts the sequencer.
	Actions func(input I, config C) (A, bool)

	// Execute produces an output and the next configuration. ok=false
	// halts the sequencer.
	Execute func(action A, input I, config C) (O, C, bool)
}

// Nondeterministic is the set-valued counterpart used by spec-semantics
// providers (e.g. an automaton), composed into a Deterministic relaxed
// membership semantics by this package's sibling, internal/membership.
type Nondeterministic[I, O, A, C any] struct {
	// Initial returns the set of initial configurations. An empty set
	// means the semantics cannot start.
	Initial func() []C

	// Actions returns the set of actions available for input under config.
	Actions func(input I, config C) []A

	// Execute returns the set of (output, nextConfig) pairs reachable by
	// performing action on input under config.
	Execute func(action A, input I, config C) []Result[O, C]
}

// Result pairs a nondeterministic semantics' output with the configuration
// it transitions to.
type Result[O, C any] struct {
	Output O
	Config C
}
