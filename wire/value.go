// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package wire

import (
	"math/big"
	"strings"
)

// Value is the state of a wire at a given time: either Unknown or an
// arbitrary precision integer.
//
// Unknown covers every non binary state found in traces (x, z, undriven). A
// Value built with HighZ is Unknown for all purposes but remembers that it
// came from a high impedance state so that renderers can tell x and z apart.
// Operators never produce HighZ values.
//
// The zero Value is Unknown.
//
type Value struct {
	n *big.Int // nil when unknown. Never mutated once set.
	z bool
}

var bigOne = big.NewInt(1)

// Unknown returns the unknown value.
//
func Unknown() Value { return Value{} }

// HighZ returns an unknown value tagged as high impedance.
//
func HighZ() Value { return Value{z: true} }

// Int returns a known value from an int64.
//
func Int(i int64) Value { return Value{n: big.NewInt(i)} }

// Big returns a known value from a big.Int. A nil x yields Unknown. x is
// copied.
//
func Big(x *big.Int) Value {
	if x == nil {
		return Value{}
	}
	return Value{n: new(big.Int).Set(x)}
}

// Bool returns 1 if b is true, 0 otherwise.
//
func Bool(b bool) Value {
	if b {
		return Value{n: big.NewInt(1)}
	}
	return Value{n: big.NewInt(0)}
}

// ParseBits parses a string of binary digits as found in VCD files. Any x
// digit makes the result Unknown, a string made only of z digits yields HighZ
// and a mix of z and binary digits yields Unknown. ok is false if s contains
// anything else or is empty.
//
func ParseBits(s string) (v Value, ok bool) {
	if s == "" {
		return Value{}, false
	}
	var hasX, hasZ, hasBit bool
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1':
			hasBit = true
		case 'x', 'X':
			hasX = true
		case 'z', 'Z':
			hasZ = true
		default:
			return Value{}, false
		}
	}
	switch {
	case hasX:
		return Unknown(), true
	case hasZ && !hasBit:
		return HighZ(), true
	case hasZ:
		return Unknown(), true
	}
	n, ok := new(big.Int).SetString(s, 2)
	if !ok {
		return Value{}, false
	}
	return Value{n: n}, true
}

// Known returns true if v is not Unknown.
//
func (v Value) Known() bool { return v.n != nil }

// IsHighZ returns true if v is Unknown and tagged as high impedance.
//
func (v Value) IsHighZ() bool { return v.n == nil && v.z }

// Truthy returns true if v is known and non zero.
//
func (v Value) Truthy() bool { return v.n != nil && v.n.Sign() != 0 }

// BigInt returns the integer value of v or nil if v is Unknown. The returned
// value must not be modified.
//
func (v Value) BigInt() *big.Int { return v.n }

// Uint64 returns the value of v as an uint64. ok is false if v is Unknown,
// negative, or does not fit.
//
func (v Value) Uint64() (u uint64, ok bool) {
	if v.n == nil || !v.n.IsUint64() {
		return 0, false
	}
	return v.n.Uint64(), true
}

// Equal returns true if v and w hold the same state. Two unknown values are
// equal only if they carry the same high impedance tag.
//
func (v Value) Equal(w Value) bool {
	if v.n == nil || w.n == nil {
		return v.n == nil && w.n == nil && v.z == w.z
	}
	return v.n.Cmp(w.n) == 0
}

// String returns the decimal representation of v, "x" or "z".
//
func (v Value) String() string {
	if v.n == nil {
		if v.z {
			return "z"
		}
		return "x"
	}
	return v.n.String()
}

// Text formats v in the given base (2 to 36, upper case digits). If width is
// positive, known values are zero padded to the number of digits needed to
// represent width bits in that base, and unknown values are repeated over that
// many digits.
//
func (v Value) Text(base, width int) string {
	digits := 0
	if width > 0 {
		max := new(big.Int).Lsh(bigOne, uint(width))
		digits = len(max.Sub(max, bigOne).Text(base))
	}
	if v.n == nil {
		if digits == 0 {
			digits = 1
		}
		return strings.Repeat(v.String(), digits)
	}
	s := strings.ToUpper(v.n.Text(base))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	if neg {
		s = "-" + s
	}
	return s
}
