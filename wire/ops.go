// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package wire

import (
	"math/big"
	"sort"
	"strconv"
)

// Op is a binary operator.
//
type Op int

// Binary operators.
//
const (
	And Op = iota
	Or
	Xor
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
	Shl
	Shr
	Add
	Sub
	Mod
	Implies // boolean a -> b
	Equiv   // boolean a = b
	opCount
)

var opTokens = [...]string{
	And:     "&",
	Or:      "|",
	Xor:     "^",
	Eq:      "==",
	Ne:      "!=",
	Gt:      ">",
	Ge:      ">=",
	Lt:      "<",
	Le:      "<=",
	Shl:     "<<",
	Shr:     ">>",
	Add:     "+",
	Sub:     "-",
	Mod:     "%",
	Implies: "->",
	Equiv:   "=",
}

// String returns the operator token.
//
func (op Op) String() string {
	if op < 0 || op >= opCount {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opTokens[op]
}

// ParseOp returns the operator for the given token.
//
func ParseOp(tok string) (Op, bool) {
	for op, t := range opTokens {
		if t == tok {
			return Op(op), true
		}
	}
	return 0, false
}

// maxShift bounds shift amounts. Larger left shifts yield Unknown.
const maxShift = 1 << 16

// Width returns the width of the result of op applied to operands of width a
// and b.
//
func (op Op) Width(a, b int) int {
	switch op {
	case Eq, Ne, Gt, Ge, Lt, Le, Implies, Equiv:
		return 1
	case Shl, Shr, Mod:
		return a
	case Add, Sub:
		return max(a, b) + 1
	}
	return max(a, b)
}

// Apply applies op to a and b. If either operand is Unknown, the result is
// Unknown.
//
func Apply(op Op, a, b Value) Value {
	if !a.Known() || !b.Known() {
		return Unknown()
	}
	x, y := a.n, b.n
	switch op {
	case And:
		return Value{n: new(big.Int).And(x, y)}
	case Or:
		return Value{n: new(big.Int).Or(x, y)}
	case Xor:
		return Value{n: new(big.Int).Xor(x, y)}
	case Eq:
		return Bool(x.Cmp(y) == 0)
	case Ne:
		return Bool(x.Cmp(y) != 0)
	case Gt:
		return Bool(x.Cmp(y) > 0)
	case Ge:
		return Bool(x.Cmp(y) >= 0)
	case Lt:
		return Bool(x.Cmp(y) < 0)
	case Le:
		return Bool(x.Cmp(y) <= 0)
	case Shl:
		if y.Sign() < 0 || !y.IsUint64() || y.Uint64() > maxShift {
			return Unknown()
		}
		return Value{n: new(big.Int).Lsh(x, uint(y.Uint64()))}
	case Shr:
		if y.Sign() < 0 {
			return Unknown()
		}
		if !y.IsUint64() || y.Uint64() > maxShift {
			if x.Sign() < 0 {
				return Int(-1)
			}
			return Int(0)
		}
		return Value{n: new(big.Int).Rsh(x, uint(y.Uint64()))}
	case Add:
		return Value{n: new(big.Int).Add(x, y)}
	case Sub:
		return Value{n: new(big.Int).Sub(x, y)}
	case Mod:
		if y.Sign() == 0 {
			return Unknown()
		}
		return Value{n: floorMod(x, y)}
	case Implies:
		return Bool(!a.Truthy() || b.Truthy())
	case Equiv:
		return Bool(a.Truthy() == b.Truthy())
	}
	panic("unknown operator " + op.String())
}

// floorMod returns x mod y with the sign of y.
//
func floorMod(x, y *big.Int) *big.Int {
	m := new(big.Int).Rem(x, y)
	if m.Sign() != 0 && m.Sign() != y.Sign() {
		m.Add(m, y)
	}
	return m
}

// Binary returns a new wire computing op over a and b at every time.
//
func Binary(op Op, a, b *Wire) *Wire {
	return Combine("("+a.Name+" "+op.String()+" "+b.Name+")", op.Width(a.Width, b.Width),
		func(v []Value) Value { return Apply(op, v[0], v[1]) },
		a, b)
}

// Combine merges the transitions of the given wires in time order and calls
// fn with the values of all wires at every merged transition time. Only the
// results that differ from the previous one are stored. Before the first
// merged transition, the result is Unknown.
//
func Combine(name string, width int, fn func([]Value) Value, ws ...*Wire) *Wire {
	r := New(name, width)
	idx := make([]int, len(ws))
	cur := make([]Value, len(ws))
	prev := Unknown()
	for {
		// next merged key
		var t uint64
		found := false
		for i, w := range ws {
			if idx[i] < len(w.keys) && (!found || w.keys[idx[i]] < t) {
				t, found = w.keys[idx[i]], true
			}
		}
		if !found {
			break
		}
		for i, w := range ws {
			if idx[i] < len(w.keys) && w.keys[idx[i]] == t {
				cur[i] = w.vals[idx[i]]
				idx[i]++
			}
		}
		if v := fn(cur); !v.Equal(prev) {
			r.keys = append(r.keys, t)
			r.vals = append(r.vals, v)
			prev = v
		}
	}
	r.Freeze()
	return r
}

// Map returns a new wire with fn applied to every transition of w.
//
func Map(name string, width int, w *Wire, fn func(Value) Value) *Wire {
	return Combine(name, width, func(v []Value) Value { return fn(v[0]) }, w)
}

// Not returns the bitwise complement of w, masked to its width. For width 0
// wires, this is the logical negation.
//
func (w *Wire) Not() *Wire {
	var mask *big.Int
	if w.Width > 0 {
		mask = new(big.Int).Lsh(bigOne, uint(w.Width))
		mask.Sub(mask, bigOne)
	}
	return Map("!"+w.Name, w.Width, w, func(v Value) Value {
		if !v.Known() {
			return Unknown()
		}
		if mask == nil {
			return Bool(!v.Truthy())
		}
		n := new(big.Int).Not(v.n)
		return Value{n: n.And(n, mask)}
	})
}

// Neg returns the arithmetic negation of w.
//
func (w *Wire) Neg() *Wire {
	return Map("-"+w.Name, w.Width, w, func(v Value) Value {
		if !v.Known() {
			return Unknown()
		}
		return Value{n: new(big.Int).Neg(v.n)}
	})
}

// firstTruthy returns the time of the first truthy transition of w.
//
func (w *Wire) firstTruthy() (uint64, bool) {
	for i, v := range w.vals {
		if v.Truthy() {
			return w.keys[i], true
		}
	}
	return 0, false
}

// latch builds a 1 bit wire holding init from time 0 and !init from the
// first truthy transition of w, offset by delay.
//
func (w *Wire) latch(name string, init bool, delay uint64) *Wire {
	r := New(name+" "+w.Name, 1)
	r.Set(0, Bool(init))
	if t, ok := w.firstTruthy(); ok {
		r.Set(t+delay, Bool(!init))
	}
	r.Freeze()
	return r
}

// From returns a 1 bit wire that is 0 until w first becomes truthy and 1
// from then on.
//
func (w *Wire) From() *Wire { return w.latch("from", false, 0) }

// After is like From but becomes 1 one step after w first becomes truthy.
//
func (w *Wire) After() *Wire { return w.latch("after", false, 1) }

// Until returns a 1 bit wire that is 1 up to and including the time w first
// becomes truthy, and 0 from the next step on.
//
func (w *Wire) Until() *Wire { return w.latch("until", true, 1) }

// Before returns a 1 bit wire that is 1 until w first becomes truthy and 0
// from then on.
//
func (w *Wire) Before() *Wire { return w.latch("before", true, 0) }

func shiftName(op string, amt uint64, name string) string {
	if amt == 1 {
		return op + " " + name
	}
	return strconv.FormatUint(amt, 10) + " " + op + " " + name
}

// Next returns w shifted amt steps earlier: the value of the result at time t
// is the value of w at time t+amt.
//
func (w *Wire) Next(amt uint64) *Wire {
	r := New(shiftName("next", amt, w.Name), w.Width)
	if len(w.keys) > 0 && w.keys[0] <= amt {
		r.Set(0, w.Get(amt))
	}
	i := sort.Search(len(w.keys), func(i int) bool { return w.keys[i] > amt })
	for ; i < len(w.keys); i++ {
		r.Set(w.keys[i]-amt, w.vals[i])
	}
	r.Freeze()
	return r
}

// Prev returns w shifted amt steps later. The result is Unknown for the
// first amt steps.
//
func (w *Wire) Prev(amt uint64) *Wire {
	r := New(shiftName("prev", amt, w.Name), w.Width)
	for i, t := range w.keys {
		r.Set(t+amt, w.vals[i])
	}
	r.Freeze()
	return r
}

// Acc returns a counter of the rising edges of w: it starts at 0 and is
// incremented every time w becomes truthy after having been falsy. A wire
// that is truthy at its first transition does not count as a rising edge.
//
func (w *Wire) Acc() *Wire {
	r := New("acc "+w.Name, 0)
	r.Set(0, Int(0))
	var count int64
	high := true
	for i, v := range w.vals {
		switch t := v.Truthy(); {
		case t && !high:
			high = true
			count++
			r.Set(w.keys[i], Int(count))
		case !t && high:
			high = false
		}
	}
	r.Freeze()
	return r
}
