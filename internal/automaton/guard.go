package automaton

import (
	"fmt"

	"github.com/fenwicklabs/dtwin/internal/measurement"
)

// Op is a guard comparison operator, re-themed from the teacher's
// risk.Checker numeric-threshold comparisons (order value vs. max, price
// vs. reference band) into transition guards compared against a named
// measurement column.
type Op uint8

const (
	OpGreater Op = iota
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
	OpEqual
	OpNotEqual
)

func (o Op) String() string {
	switch o {
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	default:
		return "?"
	}
}

// Guard evaluates a single comparison against a named column of a step's
// current measurement, mirroring risk.Checker.checkPriceBand's shape
// (read a named field, compare to a threshold, return bool) but
// generalized from hard-coded price/volume fields to any column name.
type Guard struct {
	Column    string
	Op        Op
	Threshold float64
}

// NewGuard constructs a guard. It panics on an unknown operator, the same
// defensive posture the teacher's risk checker takes for malformed config.
func NewGuard(column string, op Op, threshold float64) Guard {
	switch op {
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual, OpEqual, OpNotEqual:
	default:
		panic(fmt.Sprintf("automaton: unknown guard operator %v", op))
	}
	return Guard{Column: column, Op: op, Threshold: threshold}
}

// Evaluate reports whether values[g.Column] satisfies the guard. A
// missing or non-numeric column fails the guard rather than panicking,
// matching checkPriceBand's "no reference price, allow order" philosophy
// inverted for the failure case: an unevaluable guard cannot pass.
func (g Guard) Evaluate(values map[string]measurement.Value) bool {
	v, exists := values[g.Column]
	if !exists {
		return false
	}
	f, ok := v.Float64()
	if !ok {
		return false
	}

	switch g.Op {
	case OpGreater:
		return f > g.Threshold
	case OpGreaterOrEqual:
		return f >= g.Threshold
	case OpLess:
		return f < g.Threshold
	case OpLessOrEqual:
		return f <= g.Threshold
	case OpEqual:
		return f == g.Threshold
	case OpNotEqual:
		return f != g.Threshold
	default:
		return false
	}
}

// String renders the guard the way a transition label would read, e.g. "v>0".
func (g Guard) String() string {
	return fmt.Sprintf("%s%s%g", g.Column, g.Op, g.Threshold)
}
