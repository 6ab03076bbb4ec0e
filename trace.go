// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtrace

import (
	"io"
	"log/slog"
	"os"

	"github.com/db47h/hwtrace/expr"
	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/vcd"
	"github.com/db47h/hwtrace/wire"
	"github.com/pkg/errors"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "hwtrace"))
}

// Trace is a loaded value change dump.
//
type Trace struct {
	Root     *wire.Group
	Metadata map[string]string

	p *expr.Parser
}

// New wraps a parsed dump. Expressions are compiled with p. If p is nil, a
// new parser is compiled.
//
func New(d *vcd.Dump, p *expr.Parser) (*Trace, error) {
	if p == nil {
		var err error
		if p, err = expr.Compile(); err != nil {
			return nil, err
		}
	}
	return &Trace{Root: d.Root, Metadata: d.Metadata, p: p}, nil
}

// Read parses a VCD, or EVCD if evcd is true, from r.
//
func Read(r io.Reader, evcd bool, p *expr.Parser) (*Trace, error) {
	parse := vcd.Parse
	if evcd {
		parse = vcd.ParseEVCD
	}
	d, err := parse(r)
	if err != nil {
		return nil, err
	}
	return New(d, p)
}

// Open reads the named file. Files with an .evcd extension are read as EVCD.
//
func Open(name string, p *expr.Parser) (*Trace, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fault.As(fault.Input, errors.WithStack(err))
	}
	defer f.Close()
	t, err := Read(f, vcd.IsEVCD(name), p)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	logger().Debug("trace loaded", "file", name, "wires", t.NumWires(), "length", t.Length())
	return t, nil
}

// NumWires returns the number of wires in the trace, aliases included.
//
func (t *Trace) NumWires() int { return t.Root.NumWires() }

// Length returns the time of the last transition in the trace.
//
func (t *Trace) Length() uint64 { return t.Root.Length() }

// Find returns the wire with the given name or dotted path.
//
func (t *Trace) Find(name string) (*wire.Wire, error) { return t.Root.Find(name) }

// Names returns the sorted names of all wires.
//
func (t *Trace) Names() []string { return t.Root.Names() }

// Compute evaluates the expression src over the trace.
//
func (t *Trace) Compute(src string) (*wire.Wire, error) {
	n, err := t.p.Parse(src)
	if err != nil {
		return nil, err
	}
	return expr.Eval(n, t.Root)
}

// Wires evaluates a comma separated list of expressions. A plain wire name
// yields the trace's own wire.
//
func (t *Trace) Wires(list string) ([]*wire.Wire, error) {
	ns, err := t.p.ParseList(list)
	if err != nil {
		return nil, err
	}
	ws := make([]*wire.Wire, 0, len(ns))
	for _, n := range ns {
		w, err := expr.Eval(n, t.Root)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, nil
}

// Evaluate returns every time in [0, Length()) where the expression src is
// truthy.
//
func (t *Trace) Evaluate(src string) ([]uint64, error) {
	w, err := t.Compute(src)
	if err != nil {
		return nil, err
	}
	return w.Search(wire.Truthy, 0, t.Length()), nil
}

// Breakpoints returns the times where the breakpoint expression src holds.
//
func (t *Trace) Breakpoints(src string) ([]uint64, error) {
	return t.Evaluate(src)
}

// ComputeLimits returns the first time the start expression is truthy (0 if
// never), and the first time after start that the end expression is truthy
// (Length() if never). end is always greater than start unless the trace is
// empty.
//
func (t *Trace) ComputeLimits(start, end string) (uint64, uint64, error) {
	sw, err := t.Compute(start)
	if err != nil {
		return 0, 0, errors.Wrap(err, "start")
	}
	ew, err := t.Compute(end)
	if err != nil {
		return 0, 0, errors.Wrap(err, "end")
	}
	l := t.Length()
	s, ok := sw.First(wire.Truthy, 0, l)
	if !ok {
		s = 0
	}
	e, ok := ew.First(wire.Truthy, s+1, l)
	if !ok {
		e = l
	}
	return s, e, nil
}

// Window resolves a display window from optional start and end expressions
// and an optional length (0 if unset). It returns the window bounds [from, to).
//
// Giving both end and length is an error. With an end expression, start
// defaults to "time 0". Without one, the window spans length steps from
// start, or up to the end of the trace if length is 0.
//
func (t *Trace) Window(start, end string, length uint64) (from, to uint64, err error) {
	if end != "" && length != 0 {
		return 0, 0, fault.Errorf("end and length cannot be given together")
	}
	if end != "" {
		if start == "" {
			start = "time 0"
		}
		from, to, err = t.ComputeLimits(start, end)
	} else {
		if start != "" {
			from, _, err = t.ComputeLimits(start, "time 0")
		}
		to = t.Length()
		if length != 0 {
			to = from + length
		}
	}
	if err != nil {
		return 0, 0, err
	}
	logger().Debug("window", "start", start, "end", end, "from", from, "to", to)
	return from, to, nil
}
