// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwtrace/wire"

// risingEdges calls fn with the time of every 0 to 1 transition of w.
//
func risingEdges(w *wire.Wire, fn func(t uint64)) {
	prev := wire.Unknown()
	for i := 0; i < w.Len(); i++ {
		t, v := w.At(i)
		if v.Truthy() && prev.Known() && !prev.Truthy() {
			fn(t)
		}
		prev = v
	}
}

// dff is a clocked data flip flop.
//
//	Inputs: d, clk
//	Function: out(t) = d(t-1) // where t is the time of the last rising edge of clk
//
// The output is Unknown until the first rising edge of clk.
//
var dff = &Macro{
	Name:   "DFF",
	Inputs: []string{pD, pClk},
	Build: func(name string, args []*wire.Wire) *wire.Wire {
		d, clk := args[0], args[1]
		r := wire.New(name, d.Width)
		risingEdges(clk, func(t uint64) {
			// clk is known before t, so t > 0
			v := d.Get(t - 1)
			if r.Len() == 0 && !v.Known() {
				return
			}
			r.Set(t, v)
		})
		r.Freeze()
		return r
	},
}

// edge returns a macro that outputs 1 during the first step of every
// transition of its input to the state want, 0 elsewhere.
//
func edge(name string, want bool) *Macro {
	return &Macro{
		Name:   name,
		Inputs: []string{pIn},
		Build: func(name string, args []*wire.Wire) *wire.Wire {
			in := args[0]
			return wire.Combine(name, 1, func(vs []wire.Value) wire.Value {
				cur, prev := vs[0], vs[1]
				return wire.Bool(cur.Known() && prev.Known() &&
					cur.Truthy() == want && prev.Truthy() != want)
			}, in, in.Prev(1))
		},
	}
}

var (
	// rise is 1 at the first step where in is truthy after having been 0.
	rise = edge("RISE", true)
	// fall is 1 at the first step where in is 0 after having been truthy.
	fall = edge("FALL", false)
)
