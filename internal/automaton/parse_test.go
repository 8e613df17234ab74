package automaton

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAutomatonFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automaton.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadFile_BuildsPositiveAutomaton(t *testing.T) {
	path := writeAutomatonFile(t, `
state s0 initial
state s1
s0 -> s1 : v>0 : advance
s1 -> s1 : v>0 : advance
`)
	a, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "s1"}, a.States())

	spec := a.Spec()
	initial := spec.Initial()
	require.Len(t, initial, 1)
	assert.Equal(t, "s0", a.StateName(initial[0]))
}

func TestLoadFile_RecognizesAllOperators(t *testing.T) {
	path := writeAutomatonFile(t, `
state a initial
state b
a -> b : v>=0 : ge
a -> b : v<=0 : le
a -> b : v==0 : eq
a -> b : v!=0 : ne
a -> b : v>0 : gt
a -> b : v<0 : lt
`)
	a, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a.States())

	// At v=0 exactly the >=, <= and == guards hold.
	spec := a.Spec()
	var labels []string
	for _, tr := range spec.Actions(stepWith(0), spec.Initial()[0]) {
		labels = append(labels, tr.Label)
	}
	assert.Equal(t, []string{"ge", "le", "eq"}, labels)
}

func TestLoadFile_MissingInitialIsAnError(t *testing.T) {
	path := writeAutomatonFile(t, "state s0\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_UnknownLineIsAnError(t *testing.T) {
	path := writeAutomatonFile(t, "this is not valid\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}
