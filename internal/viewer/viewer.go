// Package viewer holds the sequencer's listener interface: small,
// synchronous input/output sinks wired onto internal/sli.Sequencer via
// OnInput/OnOutput.
//
// Grounded on internal/marketdata/publisher.go's subscribe-registration
// API, but deliberately not its channel-fan-out dispatch: spec.md §4.5
// requires listeners to run synchronously on the sequencer goroutine ("a
// slow listener slows the consumer... this is intentional back-pressure
// routing"), so these sinks are called directly instead of being handed
// a buffered channel.
package viewer

import (
	"fmt"
	"io"

	"github.com/fenwicklabs/dtwin/internal/sli"
)

// ConsoleInput returns an input listener that writes one line per input
// to w: "IN  <input>  cfg=<config>".
func ConsoleInput[I fmt.Stringer, C any](w io.Writer) sli.InputListener[I, C] {
	return func(input I, config C) {
		fmt.Fprintf(w, "IN  %s  cfg=%v\n", input, config)
	}
}

// ConsoleOutput returns an output listener that writes one line per
// output to w: "OUT <output>".
func ConsoleOutput[O fmt.Stringer](w io.Writer) sli.OutputListener[O] {
	return func(output O) {
		fmt.Fprintf(w, "OUT %s\n", output)
	}
}
