// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package expr

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/db47h/hwtrace/wire"
)

// Node is an expression AST node. Nodes are immutable once built.
//
// String returns a fully parenthesized representation of the node that parses
// back to an identical AST.
//
type Node interface {
	String() string
	node()
}

// Leaf is a reference to a wire by name.
//
type Leaf struct {
	Name string
}

// LitKind is the kind of a Literal.
//
type LitKind int

// Literal kinds.
//
const (
	Const LitKind = iota // constant value
	Time                 // single step pulse at a given time
)

func (k LitKind) String() string {
	if k == Time {
		return "time"
	}
	return "const"
}

// Literal is a const or time literal.
//
type Literal struct {
	Kind  LitKind
	Value *big.Int
}

// UnaryOp is a prefix operator.
//
type UnaryOp int

// Prefix operators.
//
const (
	Not UnaryOp = iota
	Neg
	From
	After
	Until
	Before
	Next
	Prev
	Acc
)

var unaryTokens = [...]string{
	Not:    "!",
	Neg:    "-",
	From:   "from",
	After:  "after",
	Until:  "until",
	Before: "before",
	Next:   "next",
	Prev:   "prev",
	Acc:    "acc",
}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryTokens) {
		return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
	}
	return unaryTokens[op]
}

func parseUnaryOp(tok string) (UnaryOp, bool) {
	for op, t := range unaryTokens {
		if t == tok {
			return UnaryOp(op), true
		}
	}
	return 0, false
}

// Unary is a prefix operator applied to X.
//
type Unary struct {
	Op UnaryOp
	// Shift amount of Next and Prev. 0 when not written, which shifts by
	// one step.
	Amount uint64
	X      Node
}

// Steps returns the number of steps a Next or Prev node shifts by.
//
func (u *Unary) Steps() uint64 {
	if u.Amount == 0 {
		return 1
	}
	return u.Amount
}

// Binary is a binary operation.
//
type Binary struct {
	Op   wire.Op
	X, Y Node
}

// Call is a macro call, like AXI(valid, ready).
//
type Call struct {
	Name string
	Args []Node
}

func (*Leaf) node()    {}
func (*Literal) node() {}
func (*Unary) node()   {}
func (*Binary) node()  {}
func (*Call) node()    {}

func (n *Leaf) String() string { return n.Name }

func (n *Literal) String() string {
	return n.Kind.String() + " " + n.Value.String()
}

func (n *Unary) String() string {
	var b strings.Builder
	if n.Amount != 0 {
		b.WriteString(strconv.FormatUint(n.Amount, 10))
		b.WriteByte(' ')
	}
	b.WriteString(n.Op.String())
	if n.Op != Not && n.Op != Neg {
		b.WriteByte(' ')
	}
	b.WriteString(n.X.String())
	return b.String()
}

func (n *Binary) String() string {
	return "(" + n.X.String() + " " + n.Op.String() + " " + n.Y.String() + ")"
}

func (n *Call) String() string {
	var b strings.Builder
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Pretty returns an indented tree representation of n, one node per line.
// Leaves print as "wire\t<name>", literals as "<kind>\t<value>", operators
// as their token followed by their operands indented by one tab.
//
func Pretty(n Node) string {
	var b strings.Builder
	pretty(&b, n, 0)
	return b.String()
}

func pretty(b *strings.Builder, n Node, depth int) {
	indent := func(d int) {
		for i := 0; i < d; i++ {
			b.WriteByte('\t')
		}
	}
	indent(depth)
	switch n := n.(type) {
	case *Leaf:
		b.WriteString("wire\t" + n.Name + "\n")
	case *Literal:
		b.WriteString(n.Kind.String() + "\t" + n.Value.String() + "\n")
	case *Unary:
		b.WriteString(n.Op.String() + "\n")
		if n.Amount != 0 {
			indent(depth + 1)
			b.WriteString(strconv.FormatUint(n.Amount, 10) + "\n")
		}
		pretty(b, n.X, depth+1)
	case *Binary:
		b.WriteString(n.Op.String() + "\n")
		pretty(b, n.X, depth+1)
		pretty(b, n.Y, depth+1)
	case *Call:
		b.WriteString(n.Name + "\n")
		for _, a := range n.Args {
			pretty(b, a, depth+1)
		}
	default:
		b.WriteString("?\n")
	}
}

// Equal returns true if the ASTs a and b are identical.
//
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Name == b.Name
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Kind == b.Kind && a.Value.Cmp(b.Value) == 0
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && a.Amount == b.Amount && Equal(a.X, b.X)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.X, b.X) && Equal(a.Y, b.Y)
	case *Call:
		b, ok := b.(*Call)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
