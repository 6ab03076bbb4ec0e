// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing wires.
//
// Tests usually build wires from dense samples, one value per time step, run
// some operator on them and compare the sparse result against a dense
// reference computed step by step.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwtrace/wire"
)

// X is the sample value that FromSamples maps to wire.Unknown.
//
const X = -1

// FromSamples builds a frozen wire holding samples[t] at time t. A sample
// equal to X is Unknown.
//
func FromSamples(name string, width int, samples ...int64) *wire.Wire {
	w := wire.New(name, width)
	for t, s := range samples {
		w.Set(uint64(t), sample(s))
	}
	w.Freeze()
	return w
}

func sample(s int64) wire.Value {
	if s == X {
		return wire.Unknown()
	}
	return wire.Int(s)
}

// Samples returns the values of w at times 0 to n-1.
//
func Samples(w *wire.Wire, n int) []wire.Value {
	vs := make([]wire.Value, n)
	for t := range vs {
		vs[t] = w.Get(uint64(t))
	}
	return vs
}

func valueString(vs []wire.Value) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteRune(' ')
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// CompareWire checks that w holds want[t] at every time t in [0, len(want)).
//
func CompareWire(t *testing.T, w *wire.Wire, want ...wire.Value) {
	t.Helper()
	got := Samples(w, len(want))
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("%s:\nexpected %s\ngot      %s\nfirst mismatch at t=%d",
				w.Name, valueString(want), valueString(got), i)
		}
	}
}

// CompareInts is like CompareWire with the expected values given as ints
// (X for Unknown).
//
func CompareInts(t *testing.T, w *wire.Wire, want ...int64) {
	t.Helper()
	vs := make([]wire.Value, len(want))
	for i, s := range want {
		vs[i] = sample(s)
	}
	CompareWire(t, w, vs...)
}

// CheckElided fails if w stores two consecutive transitions with equal
// values.
//
func CheckElided(t *testing.T, w *wire.Wire) {
	t.Helper()
	for i := 1; i < w.Len(); i++ {
		t0, v0 := w.At(i - 1)
		t1, v1 := w.At(i)
		if v0.Equal(v1) {
			t.Fatalf("%s: no-op transition %s@%d -> %s@%d", w.Name, v0, t0, v1, t1)
		}
	}
}

// RandomSamples returns n random samples in [0, limit). If unknown is true,
// some samples are X.
//
func RandomSamples(r *rand.Rand, n int, limit int64, unknown bool) []int64 {
	s := make([]int64, n)
	for i := range s {
		if unknown && r.Intn(8) == 0 {
			s[i] = X
			continue
		}
		// favor runs of equal values
		if i > 0 && r.Intn(3) == 0 {
			s[i] = s[i-1]
			continue
		}
		s[i] = r.Int63n(limit)
	}
	return s
}

// Clock returns a clock wire of the given period starting low. The wire has
// n time steps. Clock panics if period is less than 2.
//
func Clock(name string, period, n int) *wire.Wire {
	if period < 2 {
		panic("hwtest: clock period must be at least 2")
	}
	s := make([]int64, n)
	for i := range s {
		if (i/(period/2))%2 == 1 {
			s[i] = 1
		}
	}
	return FromSamples(name, 1, s...)
}

// CompareOp takes an operator over wires and checks it against a dense
// reference over random inputs of the given width. ref is called once per time
// step with the input values at that time.
//
func CompareOp(t *testing.T, iter int, width int, arity int, op func(...*wire.Wire) *wire.Wire, ref func(...wire.Value) wire.Value) {
	t.Helper()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))
	defer func() {
		if t.Failed() {
			t.Logf("seed: %d", seed)
		}
	}()
	const steps = 64
	for i := 0; i < iter; i++ {
		ins := make([]*wire.Wire, arity)
		for k := range ins {
			ins[k] = FromSamples(fmt.Sprintf("in%d", k), width, RandomSamples(r, steps, 1<<uint(width), true)...)
		}
		out := op(ins...)
		want := make([]wire.Value, steps)
		vs := make([]wire.Value, arity)
		for s := range want {
			for k, in := range ins {
				vs[k] = in.Get(uint64(s))
			}
			want[s] = ref(vs...)
		}
		CheckElided(t, out)
		CompareWire(t, out, want...)
	}
}
