// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of macros for wire expressions.
//
// A macro is called by name from an expression, e.g. AXI(valid, ready), and
// builds a new wire from its argument wires. Macro names are case
// insensitive.
//
package hwlib

import (
	"sort"
	"strings"

	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/wire"
)

// common argument names
const (
	pA     = "a"
	pB     = "b"
	pIn    = "in"
	pSel   = "sel"
	pD     = "d"
	pClk   = "clk"
	pValid = "valid"
	pReady = "ready"
)

// Macro is a named wire builder.
//
type Macro struct {
	Name   string
	Inputs []string // argument names
	Build  func(name string, args []*wire.Wire) *wire.Wire
}

// Call checks the number of arguments and builds the macro's wire.
//
func (m *Macro) Call(args ...*wire.Wire) (*wire.Wire, error) {
	if len(args) != len(m.Inputs) {
		return nil, fault.Errorf("%s expects %d arguments (%s), got %d",
			m.Name, len(m.Inputs), strings.Join(m.Inputs, ", "), len(args))
	}
	return m.Build(callName(m.Name, args), args), nil
}

func callName(name string, args []*wire.Wire) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
	}
	b.WriteByte(')')
	return b.String()
}

var macros = make(map[string]*Macro)

func register(ms ...*Macro) {
	for _, m := range ms {
		macros[strings.ToUpper(m.Name)] = m
	}
}

// Lookup returns the macro with the given name.
//
func Lookup(name string) (*Macro, bool) {
	m, ok := macros[strings.ToUpper(name)]
	return m, ok
}

// Macros returns all macros sorted by name.
//
func Macros() []*Macro {
	ms := make([]*Macro, 0, len(macros))
	for _, m := range macros {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
	return ms
}

func init() {
	register(axi, and, nand, or, nor, xor, xnor, not, mux, dff, rise, fall)
}
