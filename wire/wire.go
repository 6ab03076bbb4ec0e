// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package wire implements sparse signal timelines and their algebra.
//
// A Wire maps non-negative integer times to Values. Only transitions are
// stored: the value of a wire at time t is the value of the last transition
// at or before t. Wires built by ingestion are frozen once the trace is loaded
// and the operators in this package always return new, frozen wires.
//
package wire

import (
	"sort"
	"strconv"
)

// A Wire is a named signal timeline.
//
type Wire struct {
	// Wire name. For derived wires, this is the expression that built it,
	// e.g. "(a & b)".
	Name string
	// Width in bits. 0 is used for literals and counters that have no fixed
	// width.
	Width int

	keys   []uint64 // transition times, strictly increasing
	vals   []Value  // vals[i] holds from keys[i] until keys[i+1]
	frozen bool
}

// New returns a new empty wire.
//
func New(name string, width int) *Wire {
	return &Wire{Name: name, Width: width}
}

// Set records a transition to value v at time t. Transitions that would not
// change the value of the wire are not stored, and setting a value at an
// already recorded time replaces it.
//
// Set panics if the wire has been frozen.
//
func (w *Wire) Set(t uint64, v Value) {
	if w.frozen {
		panic("wire " + strconv.Quote(w.Name) + ": Set on frozen wire")
	}
	n := len(w.keys)
	switch {
	case n == 0:
		w.keys = append(w.keys, t)
		w.vals = append(w.vals, v)
		return
	case t > w.keys[n-1]:
		if !w.vals[n-1].Equal(v) {
			w.keys = append(w.keys, t)
			w.vals = append(w.vals, v)
		}
		return
	}
	// out of order or overwrite
	i := sort.Search(n, func(i int) bool { return w.keys[i] >= t })
	if w.keys[i] == t {
		w.vals[i] = v
	} else {
		w.keys = append(w.keys, 0)
		w.vals = append(w.vals, Value{})
		copy(w.keys[i+1:], w.keys[i:])
		copy(w.vals[i+1:], w.vals[i:])
		w.keys[i], w.vals[i] = t, v
	}
	// restore the no-op elision invariant around i
	if i+1 < len(w.keys) && w.vals[i+1].Equal(w.vals[i]) {
		w.remove(i + 1)
	}
	if i > 0 && w.vals[i-1].Equal(w.vals[i]) {
		w.remove(i)
	}
}

func (w *Wire) remove(i int) {
	w.keys = append(w.keys[:i], w.keys[i+1:]...)
	w.vals = append(w.vals[:i], w.vals[i+1:]...)
}

// Freeze makes the wire read-only.
//
func (w *Wire) Freeze() { w.frozen = true }

// Frozen returns true if w has been frozen.
//
func (w *Wire) Frozen() bool { return w.frozen }

// Get returns the value of the wire at time t. It returns Unknown if t
// precedes the first transition.
//
func (w *Wire) Get(t uint64) Value {
	i := sort.Search(len(w.keys), func(i int) bool { return w.keys[i] > t })
	if i == 0 {
		return Unknown()
	}
	return w.vals[i-1]
}

// Length returns the time of the last transition, 0 if the wire is empty.
//
func (w *Wire) Length() uint64 {
	if len(w.keys) == 0 {
		return 0
	}
	return w.keys[len(w.keys)-1]
}

// Len returns the number of stored transitions.
//
func (w *Wire) Len() int { return len(w.keys) }

// At returns the i-th stored transition.
//
func (w *Wire) At(i int) (t uint64, v Value) {
	return w.keys[i], w.vals[i]
}

// runs calls fn for every run [t0, t1) within [start, end) where pred holds
// for the value of the wire. It stops if fn returns false.
//
func (w *Wire) runs(pred func(Value) bool, start, end uint64, fn func(t0, t1 uint64) bool) {
	if start >= end {
		return
	}
	n := len(w.keys)
	i := sort.Search(n, func(i int) bool { return w.keys[i] > start })
	cur := Unknown()
	if i > 0 {
		cur = w.vals[i-1]
	}
	for t := start; ; {
		next := end
		if i < n && w.keys[i] < end {
			next = w.keys[i]
		}
		if pred(cur) && !fn(t, next) {
			return
		}
		if next >= end {
			return
		}
		t, cur = next, w.vals[i]
		i++
	}
}

// Search returns every time index t in [start, end) such that pred(w.Get(t))
// is true, including the indices between stored transitions.
//
func (w *Wire) Search(pred func(Value) bool, start, end uint64) []uint64 {
	var r []uint64
	w.runs(pred, start, end, func(t0, t1 uint64) bool {
		for t := t0; t < t1; t++ {
			r = append(r, t)
		}
		return true
	})
	return r
}

// First returns the first time index t in [start, end) such that
// pred(w.Get(t)) is true. ok is false if there is none.
//
func (w *Wire) First(pred func(Value) bool, start, end uint64) (t uint64, ok bool) {
	w.runs(pred, start, end, func(t0, _ uint64) bool {
		t, ok = t0, true
		return false
	})
	return t, ok
}

// Truthy is a Search predicate that matches known non-zero values.
//
func Truthy(v Value) bool { return v.Truthy() }

// Const returns a width 0 wire holding v from time 0.
//
func Const(v Value) *Wire {
	w := New(v.String(), 0)
	w.Set(0, v)
	w.Freeze()
	return w
}

// Time returns a 1 bit wire that is 1 at time t and 0 everywhere else.
//
func Time(t uint64) *Wire {
	w := New("time "+strconv.FormatUint(t, 10), 1)
	w.Set(0, Int(0))
	w.Set(t, Int(1))
	w.Set(t+1, Int(0))
	w.Freeze()
	return w
}
