package automaton

// Transition is a single guarded edge out of a state: if Guard evaluates
// true against the current measurement's values, the automaton may move
// to To, emitting Label as its nondeterministic output.
type Transition struct {
	From  int64
	To    int64
	Guard Guard
	Label string

	next *Transition
}

// transitionQueue is a singly-linked FIFO of a state's outgoing
// transitions, evaluated in insertion (priority) order. Adapted from the
// teacher's orderbook.PriceLevel/OrderNode ("orders resting at a price,
// FIFO by arrival" becomes "transitions leaving a state, ordered by
// declaration"), trimmed to a singly-linked list: a transition is never
// removed once declared, so the back-link and owner pointer that made
// OrderNode's O(1) arbitrary removal possible have nothing to do here.
type transitionQueue struct {
	head, tail *Transition
	count      int
}

func newTransitionQueue() *transitionQueue {
	return &transitionQueue{}
}

// Append adds a transition to the end of the queue (lowest priority).
func (q *transitionQueue) Append(t *Transition) {
	if q.tail == nil {
		q.head = t
		q.tail = t
	} else {
		q.tail.next = t
		q.tail = t
	}
	q.count++
}

// ForEach visits every transition in priority order. fn returning false
// stops the iteration early.
func (q *transitionQueue) ForEach(fn func(*Transition) bool) {
	for n := q.head; n != nil; n = n.next {
		if !fn(n) {
			return
		}
	}
}

// Count returns the number of transitions in the queue.
func (q *transitionQueue) Count() int { return q.count }
