// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package expr parses and evaluates wire expressions.
//
// Expressions combine wire names with binary operators, from lowest to
// highest precedence:
//
//	-> = & | ^          implication, equivalence, bitwise and, or, xor
//	== != > >= < <=     comparisons
//	+ - >> << %         arithmetic and shifts
//
// and prefix operators:
//
//	! -                 complement, negation
//	from after until before
//	acc                 rising edge counter
//	[n] next, [n] prev  time shifts, n defaults to 1
//
// Operands are wire names, "const n", "time n", parenthesized expressions
// and macro calls like "AXI(valid, ready)". All binary operators are left
// associative.
//
// A Parser turns an expression into an AST, and Eval computes the wire that
// an AST describes.
//
package expr

import (
	"math/big"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/db47h/hwtrace/fault"
	"github.com/db47h/hwtrace/wire"
	"github.com/pkg/errors"
)

// Parser is an expression parser. A Parser is stateless and safe for
// concurrent use.
//
type Parser struct {
	expr *participle.Parser[logicExpr]
	list *participle.Parser[exprList]
}

// Compile builds a new Parser.
//
func Compile() (*Parser, error) {
	e, err := participle.Build[logicExpr](options()...)
	if err != nil {
		return nil, fault.As(fault.Internal, errors.Wrap(err, "build expression grammar"))
	}
	l, err := participle.Build[exprList](options()...)
	if err != nil {
		return nil, fault.As(fault.Internal, errors.Wrap(err, "build expression list grammar"))
	}
	return &Parser{expr: e, list: l}, nil
}

// MustCompile is like Compile but panics on error.
//
func MustCompile() *Parser {
	p, err := Compile()
	if err != nil {
		panic(err)
	}
	return p
}

func parseError(in string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return fault.Errorf("in %q at pos %d: %s", in, perr.Position().Offset+1, perr.Message())
	}
	return fault.As(fault.Input, errors.Wrapf(err, "in %q", in))
}

// Parse parses a single expression.
//
func (p *Parser) Parse(in string) (Node, error) {
	t, err := p.expr.ParseString("", in)
	if err != nil {
		return nil, parseError(in, err)
	}
	n, err := t.normalize()
	if err != nil {
		return nil, parseError(in, err)
	}
	return n, nil
}

// ParseList parses a comma separated list of expressions.
//
func (p *Parser) ParseList(in string) ([]Node, error) {
	t, err := p.list.ParseString("", in)
	if err != nil {
		return nil, parseError(in, err)
	}
	ns := make([]Node, 0, len(t.Exprs))
	for _, e := range t.Exprs {
		n, err := e.normalize()
		if err != nil {
			return nil, parseError(in, err)
		}
		ns = append(ns, n)
	}
	return ns, nil
}

// normalization

func binary(x Node, op string, y Node) (Node, error) {
	o, ok := wire.ParseOp(op)
	if !ok {
		return nil, errors.Errorf("unknown operator %q", op)
	}
	return &Binary{Op: o, X: x, Y: y}, nil
}

type normalizer interface {
	normalize() (Node, error)
}

// operand is the (operator, right operand) pair of a binary level tail.
type operand interface {
	pair() (string, normalizer)
}

func (t *logicTail) pair() (string, normalizer) { return t.Op, t.Right }
func (t *relTail) pair() (string, normalizer)   { return t.Op, t.Right }
func (t *arithTail) pair() (string, normalizer) { return t.Op, t.Right }

// foldLeft builds a left associative chain of Binary nodes.
//
func foldLeft[T operand](left normalizer, tail []T) (Node, error) {
	x, err := left.normalize()
	for _, t := range tail {
		if err != nil {
			break
		}
		op, r := t.pair()
		var y Node
		if y, err = r.normalize(); err == nil {
			x, err = binary(x, op, y)
		}
	}
	return x, err
}

func (e *logicExpr) normalize() (Node, error) { return foldLeft(e.Left, e.Tail) }
func (e *relExpr) normalize() (Node, error)   { return foldLeft(e.Left, e.Tail) }
func (e *arithExpr) normalize() (Node, error) { return foldLeft(e.Left, e.Tail) }

func (e *unaryExpr) normalize() (Node, error) {
	switch {
	case e.Operand != nil:
		x, err := e.Operand.normalize()
		if err != nil {
			return nil, err
		}
		op, ok := parseUnaryOp(e.Op)
		if !ok {
			return nil, errors.Errorf("unknown operator %q", e.Op)
		}
		return &Unary{Op: op, X: x}, nil
	case e.Shift != nil:
		return e.Shift.normalize()
	case e.Primary != nil:
		return e.Primary.normalize()
	}
	return nil, errors.New("empty expression")
}

func (e *shiftExpr) normalize() (Node, error) {
	x, err := e.Operand.normalize()
	if err != nil {
		return nil, err
	}
	op, ok := parseUnaryOp(e.Op)
	if !ok {
		return nil, errors.Errorf("unknown operator %q", e.Op)
	}
	var amt uint64
	if e.Amount != nil {
		if amt, err = strconv.ParseUint(*e.Amount, 10, 64); err != nil {
			return nil, errors.Errorf("invalid shift amount %s", *e.Amount)
		}
		if amt == 0 {
			return nil, errors.Errorf("shift amount must be positive")
		}
	}
	return &Unary{Op: op, Amount: amt, X: x}, nil
}

func (e *primary) normalize() (Node, error) {
	switch {
	case e.Sub != nil:
		return e.Sub.normalize()
	case e.Literal != nil:
		v, ok := new(big.Int).SetString(e.Literal.Value, 10)
		if !ok {
			return nil, errors.Errorf("invalid integer %s", e.Literal.Value)
		}
		k := Const
		if e.Literal.Kind == "time" {
			k = Time
		}
		return &Literal{Kind: k, Value: v}, nil
	case e.Ident != nil:
		if e.Ident.Args == nil {
			return &Leaf{Name: e.Ident.Name}, nil
		}
		c := &Call{Name: e.Ident.Name}
		for _, a := range e.Ident.Args.Args {
			n, err := a.normalize()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, n)
		}
		return c, nil
	}
	return nil, errors.New("empty expression")
}
