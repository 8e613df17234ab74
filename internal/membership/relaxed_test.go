package membership

import (
	"testing"

	"github.com/fenwicklabs/dtwin/internal/automaton"
	"github.com/fenwicklabs/dtwin/internal/measurement"
	"github.com/fenwicklabs/dtwin/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPositiveAutomaton builds the spec §8 example automaton:
// s0 -> s1 on v>0, s1 -> s1 on v>0.
func buildPositiveAutomaton(t *testing.T) *automaton.Automaton {
	t.Helper()
	a := automaton.New()
	a.AddState("s0")
	a.AddState("s1")
	require.NoError(t, a.SetInitial("s0"))
	require.NoError(t, a.AddTransition("s0", "s1", automaton.NewGuard("v", automaton.OpGreater, 0), "advance"))
	require.NoError(t, a.AddTransition("s1", "s1", automaton.NewGuard("v", automaton.OpGreater, 0), "advance"))
	return a
}

func measurementWith(index int, v float64) *measurement.Measurement {
	return measurement.New(index).Set("v", measurement.FloatValue(v))
}

// TestScenario_RelaxedConformance is spec §8 scenario 4: v=1,2,3 all
// satisfy v>0, so every step is OK and the final config set is {s1}.
func TestScenario_RelaxedConformance(t *testing.T) {
	a := buildPositiveAutomaton(t)
	sem := New(trace.DefaultDuration(""), a.Spec(), false)

	config, ok := sem.Initial()
	require.True(t, ok)

	var verdicts []Verdict
	for i, v := range []float64{1, 2, 3} {
		m := measurementWith(i, v)
		_, ok := sem.Actions(m, config)
		require.True(t, ok)
		verdict, next, ok := sem.Execute(struct{}{}, m, config)
		require.True(t, ok)
		verdicts = append(verdicts, verdict)
		config = next
	}

	assert.Equal(t, []Verdict{OK, OK, OK}, verdicts)
	require.Len(t, config.Spec, 1)
	assert.Equal(t, "s1", a.StateName(config.Spec[0]))
}

// TestScenario_RelaxedRecovery is spec §8 scenario 5: v=1,-1,2 in relaxed
// mode. The middle step fails the guard (OK,FAIL) but the surviving
// configuration set is preserved, so the third step recovers to OK.
func TestScenario_RelaxedRecovery(t *testing.T) {
	a := buildPositiveAutomaton(t)
	sem := New(trace.DefaultDuration(""), a.Spec(), false)

	config, ok := sem.Initial()
	require.True(t, ok)

	var verdicts []Verdict
	for i, v := range []float64{1, -1, 2} {
		m := measurementWith(i, v)
		verdict, next, ok := sem.Execute(struct{}{}, m, config)
		require.True(t, ok)
		verdicts = append(verdicts, verdict)
		config = next
	}

	assert.Equal(t, []Verdict{OK, FAIL, OK}, verdicts)
	require.Len(t, config.Spec, 1)
	assert.Equal(t, "s1", a.StateName(config.Spec[0]))
}

// TestScenario_StrictPoisoning is spec §8 scenario 6: the same v=1,-1,2
// sequence in strict mode. Once the second step fails, the configuration
// set is frozen empty, so the third step fails too even though v=2>0.
func TestScenario_StrictPoisoning(t *testing.T) {
	a := buildPositiveAutomaton(t)
	sem := New(trace.DefaultDuration(""), a.Spec(), true)

	config, ok := sem.Initial()
	require.True(t, ok)

	var verdicts []Verdict
	for i, v := range []float64{1, -1, 2} {
		m := measurementWith(i, v)
		verdict, next, ok := sem.Execute(struct{}{}, m, config)
		require.True(t, ok)
		verdicts = append(verdicts, verdict)
		config = next
	}

	assert.Equal(t, []Verdict{OK, FAIL, FAIL}, verdicts)
	assert.Empty(t, config.Spec)
}

func TestActions_AbsentWhenInputAbsent(t *testing.T) {
	a := buildPositiveAutomaton(t)
	sem := New(trace.DefaultDuration(""), a.Spec(), false)
	config, _ := sem.Initial()

	_, ok := sem.Actions(nil, config)
	assert.False(t, ok)
}

func TestInitial_AbsentWhenSpecHasNoInitialStates(t *testing.T) {
	a := automaton.New()
	a.AddState("s0")
	// Deliberately never call SetInitial: spec.Initial() returns empty.
	sem := New(trace.DefaultDuration(""), a.Spec(), false)

	_, ok := sem.Initial()
	assert.False(t, ok)
}

func TestFirstMeasurement_NeverFails(t *testing.T) {
	a := buildPositiveAutomaton(t)
	sem := New(trace.DefaultDuration(""), a.Spec(), false)
	config, ok := sem.Initial()
	require.True(t, ok)

	// A value of -1 on the very first measurement must not fail: no step
	// is produced yet, so membership bootstraps trivially.
	m := measurementWith(0, -1)
	verdict, next, ok := sem.Execute(struct{}{}, m, config)
	require.True(t, ok)
	assert.Equal(t, OK, verdict)
	assert.Equal(t, config.Spec, next.Spec)
}
