// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package expr

import (
	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/hwlib"
	"github.com/db47h/hwtrace/wire"
)

// Namespace resolves wire names.
//
type Namespace interface {
	Find(name string) (*wire.Wire, error)
}

// Eval computes the wire described by n. Wire names are resolved in ns.
//
// Unresolved names, unknown macros and out of range time literals are Input
// errors. An AST node that Eval cannot handle is an Internal error.
//
func Eval(n Node, ns Namespace) (*wire.Wire, error) {
	switch n := n.(type) {
	case *Leaf:
		return ns.Find(n.Name)
	case *Literal:
		if n.Kind == Time {
			if !n.Value.IsUint64() || n.Value.Uint64() == ^uint64(0) {
				return nil, fault.Errorf("time %v out of range", n.Value)
			}
			return wire.Time(n.Value.Uint64()), nil
		}
		return wire.Const(wire.Big(n.Value)), nil
	case *Unary:
		x, err := Eval(n.X, ns)
		if err != nil {
			return nil, err
		}
		return unary(n, x)
	case *Binary:
		x, err := Eval(n.X, ns)
		if err != nil {
			return nil, err
		}
		y, err := Eval(n.Y, ns)
		if err != nil {
			return nil, err
		}
		return wire.Binary(n.Op, x, y), nil
	case *Call:
		m, ok := hwlib.Lookup(n.Name)
		if !ok {
			return nil, fault.Errorf("unknown macro %q", n.Name)
		}
		args := make([]*wire.Wire, len(n.Args))
		for i, a := range n.Args {
			w, err := Eval(a, ns)
			if err != nil {
				return nil, err
			}
			args[i] = w
		}
		return m.Call(args...)
	}
	return nil, fault.Internalf("cannot evaluate node of type %T", n)
}

func unary(n *Unary, x *wire.Wire) (*wire.Wire, error) {
	switch n.Op {
	case Not:
		return x.Not(), nil
	case Neg:
		return x.Neg(), nil
	case From:
		return x.From(), nil
	case After:
		return x.After(), nil
	case Until:
		return x.Until(), nil
	case Before:
		return x.Before(), nil
	case Next:
		return x.Next(n.Steps()), nil
	case Prev:
		return x.Prev(n.Steps()), nil
	case Acc:
		return x.Acc(), nil
	}
	return nil, fault.Internalf("cannot evaluate unary operator %v", n.Op)
}
