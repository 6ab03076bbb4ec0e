// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwtrace/wire"

// mux is a multiplexer.
//
//	Inputs: sel, a, b
//	Function: if sel == 0 { out = a } else { out = b }
//
// The output is Unknown when sel is Unknown.
//
var mux = &Macro{
	Name:   "MUX",
	Inputs: []string{pSel, pA, pB},
	Build: func(name string, args []*wire.Wire) *wire.Wire {
		return wire.Combine(name, max(args[1].Width, args[2].Width), func(vs []wire.Value) wire.Value {
			switch sel := vs[0]; {
			case !sel.Known():
				return wire.Unknown()
			case sel.Truthy():
				return vs[2]
			}
			return vs[1]
		}, args...)
	},
}
