// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwtrace/wire"
)

// gate is a logic function over the truth values of its inputs. Gates output
// 1 bit wires and Unknown whenever an input is Unknown.
type gate func(a, b bool) bool

func (g gate) build(name string, args []*wire.Wire) *wire.Wire {
	return wire.Combine(name, 1, func(vs []wire.Value) wire.Value {
		if !vs[0].Known() || !vs[1].Known() {
			return wire.Unknown()
		}
		return wire.Bool(g(vs[0].Truthy(), vs[1].Truthy()))
	}, args...)
}

func newGate(name string, fn func(a, b bool) bool) *Macro {
	return &Macro{
		Name:   name,
		Inputs: gateIn,
		Build:  gate(fn).build,
	}
}

var (
	gateIn = []string{pA, pB}

	and  = newGate("AND", func(a, b bool) bool { return a && b })
	nand = newGate("NAND", func(a, b bool) bool { return !(a && b) })
	or   = newGate("OR", func(a, b bool) bool { return a || b })
	nor  = newGate("NOR", func(a, b bool) bool { return !(a || b) })
	xor  = newGate("XOR", func(a, b bool) bool { return a && !b || !a && b })
	xnor = newGate("XNOR", func(a, b bool) bool { return a && b || !a && !b })

	// AXI is 1 when a valid/ready handshake completes.
	//
	//	Inputs: valid, ready
	//	Function: out = valid && ready
	//
	axi = &Macro{
		Name:   "AXI",
		Inputs: []string{pValid, pReady},
		Build:  gate(func(v, r bool) bool { return v && r }).build,
	}
)

// Not is a logical NOT gate.
//
//	Inputs: in
//	Function: out = !in
//
var not = &Macro{
	Name:   "NOT",
	Inputs: []string{pIn},
	Build: func(name string, args []*wire.Wire) *wire.Wire {
		return wire.Map(name, 1, args[0], func(v wire.Value) wire.Value {
			if !v.Known() {
				return wire.Unknown()
			}
			return wire.Bool(!v.Truthy())
		})
	},
}
