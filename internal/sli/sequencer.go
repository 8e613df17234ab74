package sli

import (
	"fmt"
	"time"

	"github.com/fenwicklabs/dtwin/internal/ringbuffer"
)

// InputListener is notified with every input the sequencer reads, paired
// with the configuration in effect before that input was processed.
type InputListener[I, C any] func(input I, config C)

// OutputListener is notified with every output the semantics produces.
type OutputListener[O any] func(output O)

// Sequencer is the generic driver loop that advances a Deterministic
// semantics to completion by consuming a ring buffer. It is the direct
// descendant of the teacher's single-goroutine EventProcessor.processLoop:
// read one element, advance state once, never touch the buffer from any
// other goroutine.
type Sequencer[I, O, A, C any] struct {
	buf  *ringbuffer.Buffer[I]
	sli  Deterministic[I, O, A, C]
	panicRecover bool

	inputListeners  []InputListener[I, C]
	outputListeners []OutputListener[O]

	inputsSeen  uint64
	outputsSent uint64

	paceFunc func(prev, cur I) time.Duration
	havePrev bool
	prevInput I
}

// New creates a sequencer over buf, driving sli. The sequencer never
// swallows a panic unless panicRecover is set, per spec §4.5 ("Listener
// exceptions are not caught by the sequencer; implementations MAY wrap
// them but must document the choice") — here we document it: panics
// (from a listener or from the semantics) propagate and kill the Run
// goroutine unless panicRecover is true, in which case Run recovers,
// reports the panic as its returned error, and halts. The sequencer
// itself logs nothing.
func New[I, O, A, C any](buf *ringbuffer.Buffer[I], s Deterministic[I, O, A, C], panicRecover bool) *Sequencer[I, O, A, C] {
	return &Sequencer[I, O, A, C]{buf: buf, sli: s, panicRecover: panicRecover}
}

// OnInput registers a listener invoked synchronously, on the sequencer's
// own goroutine, for every input read from the buffer.
func (s *Sequencer[I, O, A, C]) OnInput(l InputListener[I, C]) {
	s.inputListeners = append(s.inputListeners, l)
}

// OnOutput registers a listener invoked synchronously for every output
// the semantics produces.
func (s *Sequencer[I, O, A, C]) OnOutput(l OutputListener[O]) {
	s.outputListeners = append(s.outputListeners, l)
}

// SetPacing installs a consumer-side pacing function: before processing
// every input after the first, Run sleeps for fn(previous, current). This
// is how REAL_DELTA_T emulator mode is implemented (spec.md §6): the
// producer writes unpaced and the consumer self-paces instead, so a
// slow consumer exercises the same drop behavior a generously-sized
// buffer with a paced consumer would.
func (s *Sequencer[I, O, A, C]) SetPacing(fn func(prev, cur I) time.Duration) {
	s.paceFunc = fn
}

// InputsSeen returns the number of inputs delivered to listeners so far.
func (s *Sequencer[I, O, A, C]) InputsSeen() uint64 { return s.inputsSeen }

// OutputsSent returns the number of outputs delivered to listeners so far.
func (s *Sequencer[I, O, A, C]) OutputsSent() uint64 { return s.outputsSent }

// Run advances the semantics until end-of-stream or a halt is returned by
// Actions/Execute. It returns cleanly in both cases; a panicking listener
// propagates as a panic out of Run unless panicRecover was set at
// construction, in which case it is converted into the returned error.
func (s *Sequencer[I, O, A, C]) Run() (err error) {
	if s.panicRecover {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sli: sequencer recovered from panic: %v", r)
			}
		}()
	}

	config, ok := s.sli.Initial()
	if !ok {
		return nil
	}

	for {
		input, ok := s.buf.Read()
		if !ok {
			return nil // end-of-stream
		}

		if s.paceFunc != nil {
			if s.havePrev {
				if d := s.paceFunc(s.prevInput, input); d > 0 {
					time.Sleep(d)
				}
			}
			s.prevInput = input
			s.havePrev = true
		}

		s.notifyInput(input, config)

		action, ok := s.sli.Actions(input, config)
		if !ok {
			return nil
		}

		var output O
		output, config, ok = s.sli.Execute(action, input, config)
		if !ok {
			return nil
		}

		s.notifyOutput(output)
	}
}

func (s *Sequencer[I, O, A, C]) notifyInput(input I, config C) {
	s.inputsSeen++
	for _, l := range s.inputListeners {
		l(input, config)
	}
}

func (s *Sequencer[I, O, A, C]) notifyOutput(output O) {
	s.outputsSent++
	for _, l := range s.outputListeners {
		l(output)
	}
}
