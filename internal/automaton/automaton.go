// Package automaton is the reference spec-semantics provider: a
// finite-state automaton whose transitions carry guards evaluated against
// a step's current measurement. It implements the nondeterministic I/O
// semantics contract from internal/sli, and is composed with a trace
// semantics by internal/membership to decide relaxed/strict conformance.
package automaton

import (
	"fmt"

	"github.com/fenwicklabs/dtwin/internal/sli"
	"github.com/fenwicklabs/dtwin/internal/trace"
)

// State is a single named automaton state.
type State struct {
	ID          int64
	Name        string
	transitions *transitionQueue
}

// Automaton is a mutable builder for, and read-only evaluator of, a
// finite-state automaton spec.
type Automaton struct {
	states  *stateIndex
	byName  map[string]int64
	nextID  int64
	initial []int64
}

// New creates an empty automaton.
func New() *Automaton {
	return &Automaton{
		states: newStateIndex(),
		byName: make(map[string]int64),
	}
}

// AddState declares a new named state and returns its id. Declaring the
// same name twice returns the existing id without creating a duplicate.
func (a *Automaton) AddState(name string) int64 {
	if id, ok := a.byName[name]; ok {
		return id
	}
	id := a.nextID
	a.nextID++
	s := &State{ID: id, Name: name, transitions: newTransitionQueue()}
	a.states.Insert(s)
	a.byName[name] = id
	return id
}

// SetInitial marks the named states as the automaton's initial
// configurations. Must be called after the states exist.
func (a *Automaton) SetInitial(names ...string) error {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := a.byName[name]
		if !ok {
			return fmt.Errorf("automaton: unknown initial state %q", name)
		}
		ids = append(ids, id)
	}
	a.initial = ids
	return nil
}

// AddTransition adds a guarded edge from -> to, labeled for diagnostics.
// Transitions from the same state are evaluated in declaration order.
func (a *Automaton) AddTransition(from, to string, guard Guard, label string) error {
	fromID, ok := a.byName[from]
	if !ok {
		return fmt.Errorf("automaton: unknown source state %q", from)
	}
	toID, ok := a.byName[to]
	if !ok {
		return fmt.Errorf("automaton: unknown target state %q", to)
	}
	fromState := a.states.Get(fromID)
	fromState.transitions.Append(&Transition{From: fromID, To: toID, Guard: guard, Label: label})
	return nil
}

// StateName returns the declared name for an id, or "" if unknown.
func (a *Automaton) StateName(id int64) string {
	if s := a.states.Get(id); s != nil {
		return s.Name
	}
	return ""
}

// States returns the declared state names in declaration order.
func (a *Automaton) States() []string {
	var names []string
	a.states.ForEach(func(s *State) bool {
		names = append(names, s.Name)
		return true
	})
	return names
}

// Spec builds the nondeterministic I/O semantics contract that
// internal/membership composes with a trace semantics. Configuration is
// a state id; action is a matched *Transition; output is the
// transition's label.
func (a *Automaton) Spec() sli.Nondeterministic[*trace.Step, string, *Transition, int64] {
	return sli.Nondeterministic[*trace.Step, string, *Transition, int64]{
		Initial: func() []int64 {
			out := make([]int64, len(a.initial))
			copy(out, a.initial)
			return out
		},
		Actions: func(step *trace.Step, config int64) []*Transition {
			state := a.states.Get(config)
			if state == nil {
				return nil
			}
			values := step.Current.Values()
			var matched []*Transition
			state.transitions.ForEach(func(t *Transition) bool {
				if t.Guard.Evaluate(values) {
					matched = append(matched, t)
				}
				return true
			})
			return matched
		},
		Execute: func(t *Transition, step *trace.Step, config int64) []sli.Result[string, int64] {
			return []sli.Result[string, int64]{{Output: t.Label, Config: t.To}}
		},
	}
}
